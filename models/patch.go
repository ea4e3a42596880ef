package models

// PatchOp enumerates the JSON-patch operation verbs (RFC 6902).
type PatchOp string

const (
	PatchOpAdd     PatchOp = "add"
	PatchOpRemove  PatchOp = "remove"
	PatchOpReplace PatchOp = "replace"
	PatchOpMove    PatchOp = "move"
	PatchOpCopy    PatchOp = "copy"
	PatchOpTest    PatchOp = "test"
)

// PatchOperation is one structural edit in JSON-patch format. Value is only
// meaningful for add, replace and test; From only for move and copy.
type PatchOperation struct {
	Op    PatchOp `json:"op"`
	Path  string  `json:"path"`
	From  string  `json:"from,omitempty"`
	Value any     `json:"value,omitempty"`
}
