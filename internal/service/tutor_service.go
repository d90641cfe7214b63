package service

import (
	"context"
	"fmt"
	"strings"

	"onyx-tutor/internal/adapter/llm"
	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/logger"
	"onyx-tutor/internal/util"

	"go.uber.org/zap"
)

const (
	askMaxTokens  = 300
	quizMaxTokens = 3000

	minQuestionsPerType = 2
	maxQuestionsPerType = 5
)

const tutorSystemPrompt = `You are Onyx, a friendly and knowledgeable AI tutor helping a student understand the topic of **{topic}**. You act and speak like a real teacher: clear, warm, supportive, and focused on deep understanding.

**INSTRUCTION FLOW:**
1. On your **first message**, you MUST:
   - Briefly explain the topic in simple and clear language.
   - Give a short example that helps illustrate the concept.
   - THEN ask a simple, related question to get the conversation started.
   - DO NOT skip the explanation and example. These come BEFORE the question.

2. On following turns:
   - When the student answers a question, evaluate their response.
   - If the answer is correct:
     - Praise briefly (e.g., 'Great job!').
     - Then explain the logic behind the correct answer (briefly).
     - Then ask the next, slightly more challenging question.
   - If the answer is incorrect:
     - Gently explain why it's wrong.
     - Provide the correct answer with a simple explanation.
     - Ask a new but related question to reinforce the concept.

**RULES:**
- NEVER answer your own question.
- DO NOT skip explanations. Every new concept or correction must include one.
- Keep responses friendly, conversational, and focused only on teaching. No meta talk or AI disclaimers.
- Stay in character as a human-like tutor who genuinely wants to help the student learn through interaction.

**GOAL:** Build knowledge step-by-step. Be encouraging. Teach first, then quiz.`

const quizSystemPrompt = "You are a highly precise quiz creator. Your task is to generate a quiz derived *exclusively* from the provided conversation log. " +
	"The information needed to answer every question **must be explicitly present** in the 'assistant' responses within the log. Do not use outside knowledge. " +
	"Ensure that the facts tested in the `multiple_choice` section are different from the facts tested in the `enumeration` section. " +
	"For any questions involving math, dates, or other objective facts, verify the correct answer internally before creating the question. " +
	"You MUST respond ONLY with a valid JSON object with two keys: `multiple_choice` and `enumeration`. " +
	"1. `multiple_choice` must be an array of exactly {num_questions} objects with the keys 'question' (string), 'choices' (an array of 4 strings) " +
	"and 'correct' (ONLY the single uppercase letter of the correct choice, e.g. 'A', 'B', 'C' or 'D'). Never put the answer text in 'correct'. " +
	"2. `enumeration` must be an array of exactly {num_questions} fill-in-the-blank objects with the keys 'question' " +
	"(e.g. 'The powerhouse of the cell is the ____.') and 'answer' (a concise one or two word answer, e.g. 'Mitochondrion'). " +
	"Do not include any text before or after the JSON object."

// TutorService backs /ask-ai and /generate-quiz.
type TutorService interface {
	Ask(ctx context.Context, topic string, messages []domain.ConversationTurn) (string, error)
	GenerateQuiz(ctx context.Context, topic string, conversation []domain.ConversationTurn, conversationLength int) (*domain.QuizContent, error)
}

type tutorService struct {
	model llm.ChatModel
}

func NewTutorService(model llm.ChatModel) TutorService {
	return &tutorService{model: model}
}

// QuestionsPerType is max(2, min(5, floor(conversationLength/4))).
func QuestionsPerType(conversationLength int) int {
	n := conversationLength / 4
	if n > maxQuestionsPerType {
		n = maxQuestionsPerType
	}
	if n < minQuestionsPerType {
		n = minQuestionsPerType
	}
	return n
}

func (s *tutorService) Ask(ctx context.Context, topic string, messages []domain.ConversationTurn) (string, error) {
	if strings.TrimSpace(topic) == "" || len(messages) == 0 {
		return "", domain.NewInvalidInputError("Missing messages or topic")
	}

	req := llm.Request{
		System:    strings.ReplaceAll(tutorSystemPrompt, "{topic}", topic),
		Messages:  toLLMMessages(messages),
		MaxTokens: askMaxTokens,
	}
	resp, err := s.model.Generate(ctx, req)
	if err != nil {
		logger.Get().Error("Tutor reply failed", zap.String("topic", topic), zap.Error(err))
		return "", domain.NewLLMServiceError(err)
	}
	return resp.Content, nil
}

func (s *tutorService) GenerateQuiz(ctx context.Context, topic string, conversation []domain.ConversationTurn, conversationLength int) (*domain.QuizContent, error) {
	if strings.TrimSpace(topic) == "" || len(conversation) == 0 || conversationLength <= 0 {
		return nil, domain.NewInvalidInputError("Missing topic, conversation, or conversation length.")
	}

	numQuestions := QuestionsPerType(conversationLength)
	req := llm.Request{
		System: strings.ReplaceAll(quizSystemPrompt, "{num_questions}", fmt.Sprint(numQuestions)),
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: buildQuizUserPrompt(topic, conversation),
		}},
		MaxTokens: quizMaxTokens,
		JSON:      true,
	}

	resp, err := s.model.Generate(ctx, req)
	if err != nil {
		logger.Get().Error("Quiz generation failed", zap.String("topic", topic), zap.Error(err))
		return nil, domain.NewLLMServiceError(err)
	}

	content, err := ParseQuizContent(resp.Content)
	if err != nil {
		logger.Get().Error("Failed to parse quiz from LLM response",
			zap.Error(err),
			zap.String("response_snippet", util.Truncate(resp.Content, 200)))
		return nil, domain.NewQuizParseError(err)
	}

	logger.Get().Info("Quiz generated",
		zap.String("topic", topic),
		zap.Int("multiple_choice", len(content.MultipleChoice)),
		zap.Int("enumeration", len(content.Enumeration)))
	return content, nil
}

func buildQuizUserPrompt(topic string, conversation []domain.ConversationTurn) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a quiz based on this conversation about '%s':\n\n--- CONVERSATION LOG ---\n", topic)
	for i, turn := range conversation {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s: %s", turn.Role, turn.Content)
	}
	b.WriteString("\n--- END LOG ---")
	return b.String()
}

func toLLMMessages(turns []domain.ConversationTurn) []llm.Message {
	out := make([]llm.Message, len(turns))
	for i, t := range turns {
		role := llm.RoleUser
		if t.Role == domain.RoleAssistant {
			role = llm.RoleAssistant
		}
		out[i] = llm.Message{Role: role, Content: t.Content}
	}
	return out
}
