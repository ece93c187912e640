package client

const (
	// Default backend address of the knowledge service
	defaultServer = "http://localhost:8000"

	knowledgePrefix = "/api/knowledge"

	// Knowledge base endpoints
	endpointKnowledgeBases    = knowledgePrefix + "/bases"    // GET, POST
	endpointKnowledgeBaseByID = knowledgePrefix + "/bases/%s" // GET, PUT, DELETE

	// Document endpoints
	endpointDocumentsByBase = knowledgePrefix + "/bases/%s/documents"        // GET
	endpointDocumentUpload  = knowledgePrefix + "/bases/%s/documents/upload" // POST multipart
	endpointDocumentByID    = knowledgePrefix + "/documents/%s"              // GET, DELETE
	endpointDocumentProcess = knowledgePrefix + "/documents/%s/process"      // POST

	// Chat endpoints
	endpointChat = "/api/chat"
)
