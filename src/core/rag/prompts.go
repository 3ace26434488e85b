package rag

const (
	AnswerSystemMessageTmpl = `
Tu es un assistant spécialisé dans les procédures administratives. Réponds à la question en te basant UNIQUEMENT sur les informations fournies ci-dessous.
`

	AnswerPromptTmpl = `CONTEXTE DOCUMENTAIRE:
{{.Context}}

QUESTION: {{.Question}}

INSTRUCTIONS:
- Réponds en français de manière claire et structurée
- Base-toi UNIQUEMENT sur les informations du contexte fourni
- Si l'information n'est pas dans le contexte, dis-le clairement
- Cite les sources entre crochets [Source: nom_document]
- Sois précis et concis

RÉPONSE:`
)
