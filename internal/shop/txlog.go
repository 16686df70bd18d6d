package shop

// TransactionLogCap bounds the transaction log; appends past the cap evict
// the oldest entry.
const TransactionLogCap = 6

// TransactionLog is a bounded FIFO of human-readable sale outcomes.
type TransactionLog struct {
	entries []string
}

// Append pushes a line onto the end of the log, evicting the oldest line
// once the cap is exceeded.
func (t *TransactionLog) Append(line string) {
	t.entries = append(t.entries, line)
	if len(t.entries) > TransactionLogCap {
		t.entries = t.entries[len(t.entries)-TransactionLogCap:]
	}
}

// Entries returns the log in insertion order, oldest first. The returned
// slice is a copy; callers can't mutate the log through it.
func (t *TransactionLog) Entries() []string {
	out := make([]string, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the current number of entries.
func (t *TransactionLog) Len() int {
	return len(t.entries)
}
