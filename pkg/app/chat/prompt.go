package chat

import (
	"fmt"

	"github.com/asifkhuda/turing/pkg/infra/providers"
)

const systemPromptTemplate = `You are %[1]s. You are %[2]s's AI Portfolio Assistant. Your goal is to be helpful, professional, and concise.

**Rules for answering:**
1. **Be Concise:** Keep answers short (max 3-4 sentences) unless the user specifically asks for "details".
2. **Use Formatting:** Always use **bold text** for key terms and bullet points for lists. Never use large blocks of text.
3. **Links:** If you mention a link (like GitHub or LinkedIn), format it as a clickable Markdown link, e.g., [LinkedIn](https://linkedin.com/...).
4. **Tone:** Be conversational. For broad questions (like "Tell me about %[3]s"), give a high-level summary and ask if they want to know more about a specific topic (like "Projects" or "Thesis").
5. **Grounding:** Only answer based on the Context below. If you don't know the answer, say "I don't have that information right now."

Context:
%[4]s`

type Persona struct {
	AssistantName string
	OwnerName     string
}

// SystemPrompt renders the persona rules with the retrieved context.
func (p Persona) SystemPrompt(context string) string {
	return fmt.Sprintf(systemPromptTemplate, p.AssistantName, p.OwnerName, firstName(p.OwnerName), context)
}

func (p Persona) Messages(context, question string) []providers.Message {
	return []providers.Message{
		{Role: providers.RoleSystem, Content: p.SystemPrompt(context)},
		{Role: providers.RoleUser, Content: question},
	}
}

func firstName(full string) string {
	for i, r := range full {
		if r == ' ' {
			return full[:i]
		}
	}
	return full
}
