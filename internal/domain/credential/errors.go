package credential

import "errors"

var (
	ErrCredentialNotFound  = errors.New("credential not found")
	ErrPageExpired         = errors.New("page expired")
	ErrInvalidViewToken    = errors.New("invalid view token")
	ErrDocumentNotUploaded = errors.New("document not uploaded")
)
