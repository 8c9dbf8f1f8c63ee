package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mcq_quiz_backend/internal/config"
	"mcq_quiz_backend/internal/model"
	"mcq_quiz_backend/internal/util"
	"net/http"
	"strings"
)

type AIService struct {
	config config.AIConfig
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{config: cfg}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GeneratedQuestion AI产出的候选题目，与 Question 字段对齐
type GeneratedQuestion struct {
	Text          string `json:"text"`
	OptionA       string `json:"optionA"`
	OptionB       string `json:"optionB"`
	OptionC       string `json:"optionC"`
	OptionD       string `json:"optionD"`
	CorrectOption string `json:"correctOption"`
	Points        int    `json:"points"`
	Difficulty    string `json:"difficulty"`
}

func (s *AIService) Chat(prompt string, system string) (string, error) {
	messages := []AIChatMessage{}

	if system != "" {
		messages = append(messages, AIChatMessage{Role: "system", Content: system})
	}
	messages = append(messages, AIChatMessage{Role: "user", Content: prompt})

	reqBody := ChatCompletionRequest{
		Model:    s.config.Model,
		Messages: messages,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("AI returned no choices")
}

// GenerateQuestions 按主题生成候选选择题。模型输出不可信：
// 严格解析+逐题校验，任何缺字段或非法选项都整体报生成失败，绝不静默入库。
func (s *AIService) GenerateQuestions(topic string) ([]GeneratedQuestion, error) {
	prompt := fmt.Sprintf(`Generate a JSON object with multiple-choice questions on the topic "%s" with the following structure:
- "questions" array containing:
  - "text": string
  - "optionA", "optionB", "optionC", "optionD": string
  - "correctOption": "a" | "b" | "c" | "d"
  - "points": 1
  - "difficulty": "easy" | "medium" | "hard"
Respond with the JSON object only.`, topic)

	raw, err := s.Chat(prompt, "You are a quiz author. Respond with valid JSON only, no prose.")
	if err != nil {
		return nil, err
	}

	questions, err := ParseGeneratedQuestions(raw)
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// ParseGeneratedQuestions 清洗模型输出中的代码块围栏并严格校验题目结构。
func ParseGeneratedQuestions(raw string) ([]GeneratedQuestion, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var parsed struct {
		Questions []GeneratedQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, util.ErrGenerationFailed
	}
	if len(parsed.Questions) == 0 {
		return nil, util.ErrGenerationFailed
	}

	for i := range parsed.Questions {
		q := &parsed.Questions[i]
		if q.Text == "" || q.OptionA == "" || q.OptionB == "" || q.OptionC == "" || q.OptionD == "" {
			return nil, util.ErrGenerationFailed
		}
		if !model.Option(q.CorrectOption).Valid() {
			return nil, util.ErrGenerationFailed
		}
		if q.Points <= 0 {
			q.Points = 1
		}
		if !model.Difficulty(q.Difficulty).Valid() {
			q.Difficulty = string(model.Medium)
		}
	}

	return parsed.Questions, nil
}
