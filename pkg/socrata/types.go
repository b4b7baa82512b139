package socrata

// UnknownName marks datasets whose metadata lookup failed. It ends up
// verbatim in the dataset_name column so gaps are easy to find.
const UnknownName = "UNKN_SOC_NAME"

// Metadata is the flattened Discovery API description of a dataset.
// Raw carries the full API result (or the failure text) as an opaque
// string for the additional-metadata column.
type Metadata struct {
	Name        string   `json:"name"`
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Datatype    string   `json:"datatype"`
	Domain      string   `json:"domain"`
	Homepage    string   `json:"homepage"`
	Keywords    []string `json:"keywords,omitempty"`
	Raw         string   `json:"-"`
}

// Resolution is the outcome of one metadata lookup. A failed lookup is
// still usable: the sentinel name, an empty description and the error
// text in Raw.
type Resolution struct {
	Found    bool
	Metadata Metadata
}
