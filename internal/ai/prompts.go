package ai

import "fmt"

// The prompts mandate a JSON-only reply; the parser still tolerates fences
// and surrounding prose because providers wrap the payload anyway.

func flashcardPrompt(text string, count int) string {
	return fmt.Sprintf(`You are an expert educator. Based on the following text, generate exactly %d flashcards for studying.

TEXT:
%s

Generate flashcards in the following JSON format ONLY (no markdown, no explanation, no code blocks):
{
  "flashcards": [
    { "question": "Question text here?", "answer": "Clear, concise answer here" }
  ]
}

Requirements:
- Questions should test key concepts
- Answers should be clear and educational
- Cover different topics from the text
- Output ONLY valid JSON, nothing else`, count, text)
}

func quizPrompt(text string, count int) string {
	return fmt.Sprintf(`You are an expert educator. Based on the following text, generate exactly %d multiple choice questions for a quiz.

TEXT:
%s

Generate quiz questions in the following JSON format ONLY (no markdown, no explanation, no code blocks):
{
  "quiz": [
    {
      "question": "Question text here?",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctAnswer": "Option B",
      "explanation": "Brief explanation why this is correct"
    }
  ]
}

Requirements:
- Each question must have exactly 4 options
- Only ONE option should be correct
- The correctAnswer must match one of the options exactly
- Output ONLY valid JSON, nothing else`, count, text)
}
