package models

// FileCategory classifies a file by its extension for comparator selection
type FileCategory string

const (
	// CategoryText indicates a text file compared line-aware
	CategoryText FileCategory = "text"
	// CategoryImage indicates an image file compared pixel-wise
	CategoryImage FileCategory = "image"
	// CategoryBinary indicates any other file, compared byte-wise
	CategoryBinary FileCategory = "binary"
)
