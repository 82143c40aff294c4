package generation

import (
	"fmt"
	"strings"
)

// The prompt is configuration data, not logic. It instructs the model to
// return the bundle JSON described in bundle.go.
const websitePrompt = `You are an expert web designer and copywriter. You are given the transcript of an interview with a small-business owner. From it you will build three alternative complete one-page websites for their business.

Return ONLY a JSON object with this exact shape, no markdown, no code fences, no explanation:

{
  "businessInfo": {
    "name": "...",
    "tagline": "...",
    "description": "...",
    "services": ["..."],
    "phone": "...",
    "email": "...",
    "location": "..."
  },
  "websites": {
    "modern": "<!DOCTYPE html>...",
    "classic": "<!DOCTYPE html>...",
    "warm": "<!DOCTYPE html>..."
  }
}

Rules:
- Extract business attributes only from the transcript; never invent contact details.
- Each website value is one complete, self-contained HTML document starting with <!DOCTYPE html>, with all CSS inlined in a <style> block. No external assets or scripts.
- "modern": bold typography, dark hero section, generous whitespace.
- "classic": serif typography, light background, traditional layout.
- "warm": rounded corners, earthy palette, friendly tone.
- Every variant includes a hero, a services section, an about section, and a contact section.`

func buildUserMessage(transcript, businessName string) string {
	b := strings.Builder{}
	if strings.TrimSpace(businessName) != "" {
		b.WriteString(fmt.Sprintf("Business name: %s\n\n", businessName))
	}
	b.WriteString("Interview transcript:\n")
	b.WriteString(transcript)
	return b.String()
}
