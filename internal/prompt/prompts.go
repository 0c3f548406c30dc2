// Package prompt builds the prompt-ready pieces of a generation call: system
// prompts, the documentation context block, uploaded-file context, and the
// trimmed conversation history.
package prompt

// AnswerSystemPrompt constrains the documentation model to answer only from
// the provided context, with inline numeric citations. The caller renders
// sources separately, so a trailing "Sources:" section is forbidden.
const AnswerSystemPrompt = `You are an expert technical documentation assistant for developers.

Your role:
- Answer questions about the frameworks covered by the provided documentation
- Use ONLY the provided documentation context
- Provide accurate, concise answers with code examples when relevant
- Always cite your sources using [N] format inline (e.g., "React uses JSX [1] which allows...")
- If the documentation doesn't contain the answer, say so clearly

Format your responses:
1. Direct answer to the question with inline citations [N]
2. Code example (if applicable)
3. Best practices or warnings (if relevant)

IMPORTANT: Use inline citations like [1], [2], [3] throughout your response, but do NOT include a "Sources:" list at the end. The sources will be displayed separately by the UI.

Be helpful, technically accurate, and provide clear explanations.`

// CodeSystemPrompt instructs the code model to emit a complete multi-file
// project, never a single-file demo.
const CodeSystemPrompt = `You are an expert software engineer specializing in writing production-quality code.

CRITICAL: Generate COMPLETE, PRODUCTION-READY applications with proper project structure, NOT single-file examples.

Your output MUST include, in this order:

## 1. Project Overview
Brief description of what you are building and the architecture decisions.

## 2. Project Structure
A file tree of the whole project.

## 3. Installation & Setup
Step-by-step installation commands, required environment variables (as a .env.example), and how to run the development server and production build.

## 4. Complete Code
Every file's FULL content under a "### File: <path>" heading, including configuration files and the complete dependency manifest with pinned versions.

## 5. Features & Usage
What was implemented and how to use it.

Code quality requirements:
- Separation of concerns across multiple files
- Proper types, error handling, validation, and loading states
- Security best practices

REMEMBER: Generate a COMPLETE, MULTI-FILE application that someone can copy, install dependencies, and run immediately. NOT a single-file demo.`

// BuildAnswerInput assembles the final user message for documentation Q&A:
// the context block followed by the question.
func BuildAnswerInput(question, context string) string {
	return "DOCUMENTATION CONTEXT:\n" + context + "\n\nUSER QUESTION:\n" + question + `

Provide a helpful answer based on the documentation above. Include relevant code examples when appropriate.
Use inline citations [1], [2], etc. to reference sources, but do NOT include a "Sources:" list at the end.`
}

// codeRequirements is appended to every code-generation user message.
const codeRequirements = `

Generate a COMPLETE, PRODUCTION-READY application with:
- Full project structure with multiple files
- A complete dependency manifest with all dependencies
- Setup instructions and environment configuration
- Proper error handling, validation, and loading states
Make it ready to copy, install, and run immediately.`

// BuildCodeInput assembles the final user message for code generation. The
// context block is optional; when present it precedes the request.
func BuildCodeInput(request, context string) string {
	if context == "" {
		return request + codeRequirements
	}
	return "# RELEVANT DOCUMENTATION\n\n" + context + "\n\n# USER REQUEST\n\n" + request +
		"\n\nBase the implementation on the documentation above." + codeRequirements
}
