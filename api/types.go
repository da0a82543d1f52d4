package api

type PullRequest struct {
	Name     string `json:"name"`
	Insecure bool   `json:"insecure,omitempty"`
}

type PullProgress struct {
	Status    string `json:"status"`
	Digest    string `json:"digest,omitempty"`
	Total     int64  `json:"total,omitempty"`
	Completed int64  `json:"completed,omitempty"`
}

type GenerateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Options *Options `json:"options,omitempty"`
}

// Options are the sampling parameters passed through to the model.
// Zero values are left to the server's defaults.
type Options struct {
	Seed          int      `json:"seed,omitempty" mapstructure:"seed"`
	NumPredict    int      `json:"num_predict,omitempty" mapstructure:"num_predict"`
	TopK          int      `json:"top_k,omitempty" mapstructure:"top_k"`
	TopP          float32  `json:"top_p,omitempty" mapstructure:"top_p"`
	Temperature   float32  `json:"temperature,omitempty" mapstructure:"temperature"`
	RepeatPenalty float32  `json:"repeat_penalty,omitempty" mapstructure:"repeat_penalty"`
	Stop          []string `json:"stop,omitempty" mapstructure:"stop"`
}

// TokenResponse is one chunk of a generation. A chunk without choices
// carries no text and only signals that the model is still working.
type TokenResponse struct {
	Choices []TokenResponseChoice `json:"choices"`
}

type TokenResponseChoice struct {
	Text string `json:"text"`
}
