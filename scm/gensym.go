package scm

import "github.com/google/uuid"

// newGensym mints a name no hand-written source can collide with: macros
// are non-hygienic by design (spec.md §9), so a macro that introduces its
// own bindings must gensym them to avoid accidental capture. Built on a
// UUID rather than a counter so it stays collision-free even across
// separate Evaluator instances sharing no state.
func newGensym() string {
	return "sym#" + uuid.NewString()
}
