package ports

import "context"

// FileStorage almacenamiento de archivos con URL pública.
type FileStorage interface {
	// Upload sube data a bucket/path y devuelve la URL pública.
	Upload(ctx context.Context, bucket, path, contentType string, data []byte) (string, error)
}

// Attachment adjunto de correo.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Mail correo saliente.
type Mail struct {
	To          []string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

// Mailer envío de correo.
type Mailer interface {
	Send(ctx context.Context, m Mail) error
}
