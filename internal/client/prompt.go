package client

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	keywordPlaceholder = regexp.MustCompile(`(?i)\{keyword\}`)
	intentPlaceholder  = regexp.MustCompile(`(?i)\{intent\}`)
)

const articleSystemPrompt = `You are an expert content writer. You MUST respond with ONLY a valid JSON object.
CRITICAL: Your entire response must be ONLY the JSON object - no text before or after it.
The JSON must have these exact keys: "title", "meta_description", "tags", "content_html".
Do not include any explanations, markdown formatting, or code blocks. Just pure JSON.`

const customOnlyOutputFormat = `

**FORMAT OUTPUT (WAJIB):**
Return ONLY a valid JSON object:
{
  "title": "Judul artikel",
  "meta_description": "Deskripsi meta 120-160 karakter",
  "tags": ["tag1", "tag2"],
  "content_html": "<h2>...</h2><p>...</p>"
}`

// BuildArticlePrompt renders the user prompt for one generation. With
// UseCustomOnly and a non-blank custom prompt, the custom prompt replaces
// the built-in one.
func BuildArticlePrompt(req *GenerateRequest) string {
	if req.UseCustomOnly && strings.TrimSpace(req.CustomPrompt) != "" {
		prompt := keywordPlaceholder.ReplaceAllLiteralString(req.CustomPrompt, req.Keyword)
		prompt = intentPlaceholder.ReplaceAllLiteralString(prompt, req.Intent)

		if req.ProductKnowledge != "" {
			prompt += "\n\n**Product Knowledge (gunakan informasi ini dalam artikel):**\n" + req.ProductKnowledge
		}
		return prompt + customOnlyOutputFormat
	}

	var productSection, customSection string
	if req.ProductKnowledge != "" {
		productSection = fmt.Sprintf("\n**IMPORTANT - Product Knowledge (use this factual information in the article):**\n%s\n", req.ProductKnowledge)
	}
	if req.CustomPrompt != "" {
		customSection = fmt.Sprintf("\n**Content Improvement Notes (apply these when writing the article):**\n%s\n", req.CustomPrompt)
	}

	k := req.Keyword
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert Content Writer using E-E-A-T standards. Write a comprehensive article for the keyword: %q.\n", k)
	fmt.Fprintf(&b, "The search intent is: %s.\n", req.Intent)
	b.WriteString(productSection)
	b.WriteString(customSection)
	b.WriteString(`
**TONE & STYLE (VERY IMPORTANT):**
- Target audience: Young adults (Gen Z and Millennials) in Indonesia
- Use CASUAL, friendly, and conversational Indonesian language
- NEVER use formal "Anda" - use "kamu" or speak directly without pronouns
- Avoid stiff corporate language. Be relatable and engaging
- Use simple, punchy sentences. Inject personality
- OK to use light slang or Gen Z expressions naturally (but don't overdo it)

**SEO REQUIREMENTS (CRITICAL - Follow these for high SEO score):**
`)
	fmt.Fprintf(&b, "1. **Keyword in Title:** The title MUST contain the keyword %q naturally.\n", k)
	fmt.Fprintf(&b, "2. **Keyword in Meta Description:** The meta description MUST include %q.\n", k)
	fmt.Fprintf(&b, "3. **Keyword in Introduction:** Mention %q within the first 100 words/first paragraph.\n", k)
	fmt.Fprintf(&b, "4. **Keyword Density:** Use %q naturally throughout the article (aim for 1-2%% density, roughly 8-15 times for 800-1000 words).\n", k)
	b.WriteString(`5. **Heading Structure:** Use at least 4-5 <h2> headings and some <h3> subheadings.
6. **Meta Description Length:** Keep between 120-160 characters.
7. **Include Links:** Add 1-2 relevant external links using proper HTML: <a href="https://example.com">anchor text</a>.

**READABILITY REQUIREMENTS (CRITICAL - Follow these for high readability score):**
1. **Short Sentences:** Keep sentences under 20 words on average. Prefer 15 words or less.
2. **Short Paragraphs:** Maximum 3 sentences per paragraph. Keep paragraphs under 100 words.
3. **Use Active Voice:** Minimize passive voice (avoid "di-", "ter-", "ke-...-an" patterns in Indonesian).
4. **Transition Words:** Start paragraphs with transition words like: "Selain itu,", "Namun,", "Jadi,", "Nah,", "Pertama,", "Selanjutnya,", "Karena itu,", "Meskipun,", etc.
5. **Content Length:** Write 800-1200 words total.

**Strict Guidelines:**
`)
	fmt.Fprintf(&b, "1. **Title:** Create a catchy H1 title that contains the keyword %q. Make it compelling and click-worthy. PLAIN TEXT ONLY, no HTML tags.\n", k)
	b.WriteString(`2. **Format:** Use HTML tags ONLY (<h2>, <h3>, <p>, <ul>, <li>, <strong>, <a>) for content_html. DO NOT use markdown. DO NOT use <html>, <head>, or <body> tags.
3. **IMPORTANT - Links/Anchor Text:** If you include links, ALWAYS use proper HTML anchor format: <a href="https://example.com">anchor text</a>. NEVER use wiki-style [url|text] or markdown [text](url) format.
`)
	fmt.Fprintf(&b, "4. **Introduction:** Mention %q naturally in the first paragraph. Hook the reader immediately.\n", k)
	b.WriteString(`5. **Body:** Write 800-1200 words. Keep paragraphs short (3 sentences max). Use bullet points for lists. Use <strong> for important terms.
6. **Structure:** Use <h2> for main sections and <h3> for subsections. Create at least 4-5 main sections.
7. **Meta Description:** MUST be PLAIN TEXT ONLY (no HTML tags like <strong>, <p>, etc). 120-160 characters. Include the keyword naturally. Keep it casual too!
8. **Tags:** Generate 3-5 relevant tags/labels for this article. Tags should be short (1-2 words each), lowercase, and relevant to the content.

**CRITICAL OUTPUT FORMAT - YOU MUST FOLLOW THIS EXACTLY:**
Return ONLY a valid JSON object. No explanations, no apologies, no extra text. Just the JSON:
{
  "title": "Your compelling title here (plain text, no HTML)",
  "meta_description": "Your meta description here - PLAIN TEXT ONLY, 120-160 chars, NO HTML TAGS",
  "tags": ["tag1", "tag2", "tag3"],
  "content_html": "<h2>First Section</h2><p>Content here...</p>..."
}

REMINDER: Your entire response must be valid JSON only. Do not include any text before or after the JSON object.`)

	return b.String()
}
