// Package todo is the demonstration domain for asyncell: an in-memory
// todo list held in an AsyncCell, mutated through a controller, and
// optionally grown by a periodic adder.
//
// The list operations are deliberately small. New identifiers are
// max(existing ids)+1, and RemoveLast refuses to shrink the list below
// one element. Everything asynchronous goes through the cell's Mutate
// guard, so observers only ever see Loading, Data, or Error snapshots.
package todo
