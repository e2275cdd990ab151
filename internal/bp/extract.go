package bp

import (
	"bytes"
)

var (
	scriptOpen  = []byte("<script")
	scriptClose = []byte("</script>")
	jsonType    = []byte("application/json")
)

// jsonPayloads returns the body of every <script type="application/json">
// block in the document, in order. The source renders one such payload per
// page; scanning for the tag directly avoids parsing the full HTML tree.
func jsonPayloads(html []byte) [][]byte {
	var payloads [][]byte

	rest := html
	for {
		start := bytes.Index(rest, scriptOpen)
		if start < 0 {
			return payloads
		}
		rest = rest[start+len(scriptOpen):]

		tagEnd := bytes.IndexByte(rest, '>')
		if tagEnd < 0 {
			return payloads
		}
		attrs := rest[:tagEnd]
		rest = rest[tagEnd+1:]

		end := bytes.Index(rest, scriptClose)
		if end < 0 {
			return payloads
		}
		if bytes.Contains(attrs, jsonType) {
			payloads = append(payloads, rest[:end])
		}
		rest = rest[end+len(scriptClose):]
	}
}
