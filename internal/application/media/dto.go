package media

// File is one uploaded part of a multipart request
type File struct {
	Name string
	Size int64
	Data []byte
}

// UploadedImage describes a stored image and its thumbnail
type UploadedImage struct {
	Filename  string `json:"filename"`
	Path      string `json:"path"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
}

// Policy bounds what the upload service accepts
type Policy struct {
	MaxSize      int64
	MaxFiles     int
	AllowedTypes []string
}

// DefaultPolicy accepts up to five jpeg, png or webp images of 5MB each
func DefaultPolicy() Policy {
	return Policy{
		MaxSize:      5 << 20,
		MaxFiles:     5,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/webp"},
	}
}
