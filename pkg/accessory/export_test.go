package accessory

// WaitIdle blocks until all queued callbacks and notifications have run.
func (c *Client) WaitIdle() {
	c.loop.waitIdle()
}
