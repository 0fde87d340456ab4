package llm

type Request struct {
	Prompt       string
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
}

type Response struct {
	Content    string
	StopReason string
}
