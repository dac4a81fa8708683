// Package lyrics asks a Gemini text model for Korean song lyrics on a topic
// and turns the answer into lyrics, a style suggestion and a SUNO AI prompt.
package lyrics

import (
	"errors"
	"fmt"
	"strings"
)

// Section markers the model is asked to emit.
const (
	LyricsMarker = "[가사]"
	StyleMarker  = "[음악 스타일 추천]"
)

// Errors returned by [BuildPrompt].
var (
	ErrTopicRequired = errors.New("topic is required")
	ErrUnknownMood   = errors.New("unknown mood")
)

var moods = map[string]string{
	"happy":       "행복하고 경쾌한",
	"sad":         "슬프고 감성적인",
	"energetic":   "활기찬",
	"calm":        "차분하고 평화로운",
	"romantic":    "로맨틱한",
	"melancholic": "멜랑콜릭한",
}

// Moods lists the accepted mood names.
func Moods() []string {
	return []string{"happy", "sad", "energetic", "calm", "romantic", "melancholic"}
}

const promptTemplate = `다음 주제로 한국어 노래 가사를 작성해주세요: "%s"

요구사항:
1. 한국어로 자연스러운 가사를 작성해주세요
2. 후렴구(코러스)를 포함한 완성된 가사 형태로 작성해주세요
3. 감정이 풍부하고 공감할 수 있는 내용으로 작성해주세요
4. 가사는 3-4절 정도의 적당한 길이로 작성해주세요

출력 형식:
` + LyricsMarker + `
(여기에 가사를 작성)

` + StyleMarker + `
(여기에 음악 스타일을 추천)`

// BuildPrompt returns the model prompt for topic. An empty mood adds no
// mood instruction.
func BuildPrompt(topic, mood string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", ErrTopicRequired
	}

	prompt := fmt.Sprintf(promptTemplate, topic)

	if mood == "" {
		return prompt, nil
	}

	text, ok := moods[mood]
	if !ok {
		return "", fmt.Errorf("%w: %s (want one of %s)", ErrUnknownMood, mood, strings.Join(Moods(), ", "))
	}

	return prompt + "\n\n음악 분위기는 " + text + " 스타일로 작성해주세요.", nil
}
