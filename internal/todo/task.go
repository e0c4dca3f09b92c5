package todo

// Task is a single entry of the task list
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Storage is the durable key-value capability the store persists through.
// Get reports ok=false when the key has never been written.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// StorageKey is the key the serialized task list lives under
const StorageKey = "todos"
