package diag

// EnterCritical opens a region in which observer notification is held back.
// Regions nest; only the leave that closes the outermost region re-arms the
// observer.
func (c *Context) EnterCritical() {
	if c == nil {
		return
	}
	c.depth++
}

// LeaveCritical closes the innermost critical region. A leave without a
// matching enter is ignored; the depth never goes negative.
func (c *Context) LeaveCritical() {
	if c == nil || c.depth == 0 {
		return
	}
	c.depth--
}

// InCritical reports whether any critical region is open.
func (c *Context) InCritical() bool {
	return c != nil && c.depth > 0
}
