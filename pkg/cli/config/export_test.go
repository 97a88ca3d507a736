package config

import (
	"io"
	"log/slog"
	"time"
)

func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

func (x *Logger) NewHandlerForTest(w io.Writer) (slog.Handler, error) {
	return x.newHandler(w)
}

func NewLLMForTest(provider, model, openAIKey, anthropicKey, projectID string) *LLM {
	return &LLM{
		provider:     provider,
		model:        model,
		openAIKey:    openAIKey,
		anthropicKey: anthropicKey,
		projectID:    projectID,
		location:     "us-central1",
		timeout:      time.Minute,
	}
}

func NewRepositoryForTest(backend, projectID, postgresURL string) *Repository {
	return &Repository{backend: backend, projectID: projectID, postgresURL: postgresURL}
}

func NewSlackForTest(botToken, channelID, notifyLevel string) *Slack {
	return &Slack{botToken: botToken, channelID: channelID, notifyLevel: notifyLevel}
}

func NewStorageForTest(backend, bucket, s3Endpoint string) *Storage {
	return &Storage{backend: backend, bucket: bucket, s3Endpoint: s3Endpoint, s3Region: "us-east-1"}
}

var ParseLogLevel = parseLogLevel
