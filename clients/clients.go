package clients

import (
	"net/http"
	"time"

	"github.com/spf13/afero"
)

type HTTP struct {
	c  *http.Client
	fs afero.Fs
}

func NewHTTP(fs afero.Fs, timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTP{c: &http.Client{Timeout: timeout}, fs: fs}
}
