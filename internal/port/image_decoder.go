package port

// ImageDecoder turns raw upload bytes into an Image ready for a provider.
type ImageDecoder interface {
	Decode(filename string, data []byte) (*Image, error)
}
