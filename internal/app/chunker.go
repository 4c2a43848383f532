package app

// chunkText splits text into overlapping segments by rune count. Segments
// come out in original order; the final one may be shorter than size.
// Config validation guarantees overlap < size, the clamp here only guards
// against a direct caller passing bad values.
func chunkText(text string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 2
	}

	runes := []rune(text)
	var chunks []string
	for start := 0; start < len(runes); {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
		start += size - overlap
	}
	return chunks
}
