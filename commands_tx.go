package rdx

// Multi begins a transactional Pipeline over session: commands queued with
// Add/AddCommand are sent as one MULTI/.../EXEC batch on Flush, and Flush
// unwraps EXEC's array into the per-command reply slice callers expect.
// This is the thin convenience the typed command surface promises on top
// of Pipeline's transactional mode, for callers who don't want to build
// the Pipeline themselves.
func Multi(session *Session, logger Logger) *Pipeline {
	return NewPipeline(session, logger, true)
}
