package search

import "fmt"

// IdentProc identifies a box across all processes of a distributed mesh:
// the global identifier of the source entity and the rank that owns it.
type IdentProc struct {
	ID   uint64 `json:"id" yaml:"id" msgpack:"id"`
	Proc uint32 `json:"proc" yaml:"proc" msgpack:"proc"`
}

// NewIdentProc returns the key for entity id owned by proc.
func NewIdentProc(id uint64, proc uint32) IdentProc {
	return IdentProc{ID: id, Proc: proc}
}

// Less orders keys by ID, then by Proc.
func (k IdentProc) Less(o IdentProc) bool {
	if k.ID != o.ID {
		return k.ID < o.ID
	}
	return k.Proc < o.Proc
}

func (k IdentProc) String() string {
	return fmt.Sprintf("{id:%d, proc:%d}", k.ID, k.Proc)
}
