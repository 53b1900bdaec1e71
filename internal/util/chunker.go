package util

// ChunkText splits text into fixed-size segments of at most size runes, in
// order and without overlap. The final segment may be shorter. Concatenating
// the returned segments reproduces the input exactly, which keeps
// re-ingestion idempotent.
func ChunkText(text string, size int) []string {
	if text == "" || size <= 0 {
		return nil
	}
	runes := []rune(text)
	out := make([]string, 0, (len(runes)+size-1)/size)
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[i:end]))
	}
	return out
}
