// Package record implements the append-only, line-delimited JSON record
// store that is the shared input/output medium between every pipeline
// stage (component A).
package record

// DuplicateRemoved is the sentinel string the Deduplicator writes in place
// of a paragraph it has marked for removal. Downstream stages that honor
// omit_duplicates skip it.
const DuplicateRemoved = "<DUPLICATE_REMOVED>"

// Raw is the record shape produced by the crawler and consumed by the
// HTML extractor: one raw HTML document per URL. The document travels
// under the "text" key on the wire, matching the crawler's original
// output format.
type Raw struct {
	URL  string `json:"url"`
	HTML string `json:"text"`
}

// Sections is the record shape produced by the extractor (and read/written
// by the normalizer and deduplicator): one markdown-ish string per
// top-level section of the page.
type Sections struct {
	URL      string   `json:"url"`
	TextList []string `json:"text_list"`
}

// Sentences is the record shape produced by the segmenter adapter: each
// section has been split into an ordered list of sentence strings.
type Sentences struct {
	URL      string     `json:"url"`
	TextList [][]string `json:"text_list"`
}

// Tokens is the record shape produced by the BPE tokenizer: each sentence
// has been split into an ordered list of token strings.
type Tokens struct {
	URL      string       `json:"url"`
	TextList [][][]string `json:"text_list"`
}
