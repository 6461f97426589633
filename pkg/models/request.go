package models

// Request describes one comparison run. It is owned by a single run
// and never shared: thresholds and extension sets are snapshotted at
// build time so a run sees no ambient state.
type Request struct {
	// ID uniquely identifies the run
	ID string `json:"id"`

	// Roots are the 2 or 3 paths being compared, in display order
	Roots []string `json:"roots"`

	// DirectoryMode is true when the roots are directory trees
	DirectoryMode bool `json:"directory_mode"`

	// TextThreshold is the similarity percentage at or above which
	// text content counts as similar
	TextThreshold float64 `json:"text_threshold"`

	// ImageThreshold is the similarity percentage for image pixels
	ImageThreshold float64 `json:"image_threshold"`

	// BinaryThreshold is the similarity percentage for raw bytes
	BinaryThreshold float64 `json:"binary_threshold"`

	// TextExtensions is the newline-separated set of text extensions
	TextExtensions string `json:"-"`

	// ImageExtensions is the newline-separated set of image extensions
	ImageExtensions string `json:"-"`

	// Exclude holds glob patterns filtered out during alignment
	Exclude []string `json:"exclude,omitempty"`

	// MaxWorkers is the comparison pool size
	MaxWorkers int `json:"max_workers"`
}

// Validate checks if the request is well formed
func (r *Request) Validate() error {
	if len(r.Roots) < 2 || len(r.Roots) > 3 {
		return &ValidationError{Field: "Roots", Message: "exactly 2 or 3 paths are required"}
	}
	for _, root := range r.Roots {
		if root == "" {
			return &ValidationError{Field: "Roots", Message: "path must not be empty"}
		}
	}
	if err := validThreshold("TextThreshold", r.TextThreshold); err != nil {
		return err
	}
	if err := validThreshold("ImageThreshold", r.ImageThreshold); err != nil {
		return err
	}
	if err := validThreshold("BinaryThreshold", r.BinaryThreshold); err != nil {
		return err
	}
	if r.MaxWorkers < 1 {
		return &ValidationError{Field: "MaxWorkers", Message: "max workers must be at least 1"}
	}
	return nil
}

func validThreshold(field string, v float64) error {
	if v < 0 || v > 100 {
		return &ValidationError{Field: field, Message: "threshold must be between 0 and 100"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
