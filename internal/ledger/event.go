package ledger

// Op names a store mutation.
type Op string

const (
	OpAdd          Op = "add"
	OpUpdate       Op = "update"
	OpDeleteSingle Op = "delete"
	OpDeleteFuture Op = "delete-future"
	OpReplaceAll   Op = "replace-all"
)

// Event describes one persisted mutation.
type Event struct {
	Op     Op
	ID     string // transaction the operation targeted; empty for replace-all
	Count  int    // rows written or removed
	Detail string
}
