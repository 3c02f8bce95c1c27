package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/spf13/viper"
)

// VoiceService transcribes Telegram voice notes so they can flow through the
// same interpretation path as typed messages. Telegram encodes voice notes as
// OGG Opus at 48 kHz.
type VoiceService struct {
	client *speech.Client
}

func NewVoiceService() *VoiceService {
	viper.SetDefault("voice.language_code", "id-ID")

	ctx := context.Background()
	client, err := speech.NewClient(ctx)
	if err != nil {
		log.Printf("[VOICE] Failed to initialize speech client, voice notes disabled: %v", err)
		return &VoiceService{client: nil}
	}
	return &VoiceService{client: client}
}

// Available reports whether transcription is usable.
func (s *VoiceService) Available() bool {
	return s.client != nil
}

// Transcribe converts one voice note into text.
func (s *VoiceService) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if s.client == nil {
		return "", errors.New("speech client not configured")
	}
	if len(audio) == 0 {
		return "", errors.New("audio data is empty")
	}

	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   speechpb.RecognitionConfig_OGG_OPUS,
			SampleRateHertz:            48000,
			LanguageCode:               viper.GetString("voice.language_code"),
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{
				Content: audio,
			},
		},
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := s.client.Recognize(timeoutCtx, req)
	if err != nil {
		return "", fmt.Errorf("recognition failed: %w", err)
	}

	var transcript strings.Builder
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			transcript.WriteString(result.Alternatives[0].Transcript)
			transcript.WriteString(" ")
		}
	}

	text := strings.TrimSpace(transcript.String())
	if text == "" {
		return "", errors.New("no transcription results")
	}
	return text, nil
}

func (s *VoiceService) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
