package view

// Debouncer coalesces rapid search edits. Each Schedule returns a token; the
// caller arranges for Apply(token) to run after the quiet period, and only the
// most recent token yields a value. It owns no timers.
type Debouncer struct {
	token   uint64
	pending bool
	value   string
}

// Schedule records value as pending and invalidates every earlier token
func (d *Debouncer) Schedule(value string) uint64 {
	d.token++
	d.pending = true
	d.value = value
	return d.token
}

// Apply returns the pending value if token is still the latest one
func (d *Debouncer) Apply(token uint64) (string, bool) {
	if !d.pending || token != d.token {
		return "", false
	}
	d.pending = false
	return d.value, true
}

// Flush returns the pending value immediately, ignoring the quiet period
func (d *Debouncer) Flush() (string, bool) {
	if !d.pending {
		return "", false
	}
	d.pending = false
	return d.value, true
}

// Cancel drops any pending value
func (d *Debouncer) Cancel() {
	d.token++
	d.pending = false
	d.value = ""
}

// Pending reports whether a value is waiting to be applied
func (d *Debouncer) Pending() bool {
	return d.pending
}
