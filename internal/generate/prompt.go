package generate

import (
	"fmt"
	"strings"
)

// MaxOutputTokens caps every completion.
const MaxOutputTokens = 1800

// Prompt is the two-message input sent to a model.
type Prompt struct {
	System          string
	User            string
	MaxOutputTokens int
}

const systemInstruction = `You are ReluGuard, an AI assistant that produces "audit-ready artefacts" (NOT compliance verdicts).
You MUST:
- Avoid claiming the organisation is compliant.
- Be explicit about assumptions and scope boundaries.
- Provide a traceability map to ISO/IEC 27001 intent-level clauses (high-level mapping is fine).
- Produce output that a human can review and take ownership of.
If input appears confidential, remind the user to redact sensitive data; do not store or request secrets.`

const policyInstructions = `Create an ISO/IEC 27001-aligned Information Security Policy artefact.
Return in %s.

Output structure (use headings):
1) Policy (clean, concise, auditor-friendly)
   - Purpose, Scope, Definitions (brief)
   - Governance & Responsibilities
   - Risk management
   - Asset management
   - Access control
   - Cryptography (high level)
   - Logging & monitoring (high level)
   - Incident management
   - Third-party / supplier security (high level)
   - Business continuity / disaster recovery (high level)
   - Awareness & training
   - Compliance, exceptions, review cadence
2) Assumptions
3) Scope boundaries (what this policy does NOT cover / "handled elsewhere")
4) Declared gaps / items requiring organisation-specific decisions
5) ISO/IEC 27001 traceability map (table: Policy Section → ISO intent area)
6) "How this was produced" note (inputs used + human review required)

Tone: %s. Task label: %s.
Keep it practical and not overly long.`

const contextPreamble = "User-provided context (may be partial, treat as drafting material):\n"

// BuildPrompt renders the fixed system and user messages for req.
func BuildPrompt(req Request) Prompt {
	format := "Markdown"
	if req.Format == "plain" {
		format = "plain text"
	}
	instructions := fmt.Sprintf(policyInstructions, format, req.Tone, req.Task)
	input := strings.TrimSpace(contextPreamble + req.Text)

	return Prompt{
		System:          systemInstruction,
		User:            instructions + "\n\n" + input,
		MaxOutputTokens: MaxOutputTokens,
	}
}
