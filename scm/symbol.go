package scm

import "sync"

// symbolTable interns symbol names so that eq? on symbols is a cheap string
// comparison of a canonical backing string, and so repeated uses of the same
// symbol name in a program don't each carry their own string header.
var symbolTable = struct {
	mu   sync.Mutex
	seen map[string]string
}{seen: make(map[string]string)}

func internSymbol(s string) string {
	symbolTable.mu.Lock()
	defer symbolTable.mu.Unlock()
	if canon, ok := symbolTable.seen[s]; ok {
		return canon
	}
	symbolTable.seen[s] = s
	return s
}
