package embedding

import (
	"time"
)

type Embedding struct {
	Value     []float64 `json:"value"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

func (e *Embedding) Dimension() int {
	if e == nil {
		return 0
	}
	return len(e.Value)
}

type Credentials struct {
	ApiKey string `json:"api_key"`
}

type Config struct {
	Provider    string        `json:"provider"`
	Model       string        `json:"model"`
	BaseURL     string        `json:"base_url,omitempty"`
	Normalize   bool          `json:"normalize"`
	Timeout     time.Duration `json:"timeout"`
	Credentials Credentials   `json:"credentials"`
}
