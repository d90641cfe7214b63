// Package docs registers the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o cmd/api/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/ask-ai": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tutor"],
                "summary": "Ask the tutor",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.AskAIRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AskAIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/save-lesson": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tutor"],
                "summary": "Save a lesson",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SaveLessonRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/generate-quiz": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tutor"],
                "summary": "Generate a quiz",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.GenerateQuizRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.GenerateQuizResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CredentialsRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.UserResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CredentialsRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TokenResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/api/auth/refresh": {
            "post": {
                "tags": ["auth"],
                "summary": "Refresh JWT tokens",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RefreshTokenRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TokenResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/api/auth/logout": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["auth"],
                "summary": "Logout user",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RefreshTokenRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MessageResponse"}}
                }
            }
        },
        "/api/users/me": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["users"],
                "summary": "Get My Profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.UserResponse"}}
                }
            }
        },
        "/api/users/me/lessons/count": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["users"],
                "summary": "Count my lessons",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.LessonCountResponse"}}
                }
            }
        },
        "/api/users/me/quiz-results": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["users"],
                "summary": "List my quiz results",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.QuizResultsResponse"}}
                }
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["users"],
                "summary": "Save a quiz result",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.QuizResultRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.QuizResultResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ValidationErrorResponse"}}
                }
            }
        },
        "/api/users/me/quiz-results/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["users"],
                "summary": "Get a quiz result",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.QuizResultResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.ConversationTurn": {
            "type": "object",
            "properties": {"role": {"type": "string"}, "content": {"type": "string"}}
        },
        "domain.QuizQuestion": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "question": {"type": "string"},
                "choices": {"type": "array", "items": {"type": "string"}},
                "correct": {"type": "string"},
                "answer": {"type": "string"}
            }
        },
        "domain.QuizContent": {
            "type": "object",
            "properties": {
                "multiple_choice": {"type": "array", "items": {"$ref": "#/definitions/domain.QuizQuestion"}},
                "enumeration": {"type": "array", "items": {"$ref": "#/definitions/domain.QuizQuestion"}}
            }
        },
        "dto.AskAIRequest": {
            "type": "object",
            "properties": {
                "topic": {"type": "string"},
                "messages": {"type": "array", "items": {"$ref": "#/definitions/domain.ConversationTurn"}}
            }
        },
        "dto.AskAIResponse": {"type": "object", "properties": {"response": {"type": "string"}}},
        "dto.SaveLessonRequest": {
            "type": "object",
            "properties": {
                "topic": {"type": "string"},
                "conversation": {"type": "array", "items": {"$ref": "#/definitions/domain.ConversationTurn"}}
            }
        },
        "dto.SuccessResponse": {"type": "object", "properties": {"success": {"type": "boolean"}}},
        "dto.GenerateQuizRequest": {
            "type": "object",
            "properties": {
                "topic": {"type": "string"},
                "conversation": {"type": "array", "items": {"$ref": "#/definitions/domain.ConversationTurn"}},
                "conversationLength": {"type": "integer"}
            }
        },
        "dto.GenerateQuizResponse": {
            "type": "object",
            "properties": {"quiz_content": {"$ref": "#/definitions/domain.QuizContent"}}
        },
        "dto.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "dto.CredentialsRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "dto.UserResponse": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "email": {"type": "string"}}
        },
        "dto.TokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "refresh_token": {"type": "string"},
                "expires_in": {"type": "integer"},
                "user": {"$ref": "#/definitions/dto.UserResponse"}
            }
        },
        "dto.RefreshTokenRequest": {"type": "object", "properties": {"refresh_token": {"type": "string"}}},
        "dto.MessageResponse": {"type": "object", "properties": {"message": {"type": "string"}}},
        "dto.LessonCountResponse": {"type": "object", "properties": {"count": {"type": "integer"}}},
        "dto.QuizResultRequest": {
            "type": "object",
            "properties": {
                "topic": {"type": "string"},
                "score": {"type": "integer"},
                "totalQuestions": {"type": "integer"},
                "questions": {"type": "array", "items": {"$ref": "#/definitions/domain.QuizQuestion"}},
                "userAnswers": {"type": "array", "items": {"type": "string"}}
            }
        },
        "dto.QuizResultResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "topic": {"type": "string"},
                "score": {"type": "integer"},
                "totalQuestions": {"type": "integer"},
                "date": {"type": "string"},
                "questions": {"type": "array", "items": {"$ref": "#/definitions/domain.QuizQuestion"}},
                "userAnswers": {"type": "array", "items": {"type": "string"}}
            }
        },
        "dto.QuizResultsResponse": {
            "type": "object",
            "properties": {"results": {"type": "array", "items": {"$ref": "#/definitions/dto.QuizResultResponse"}}}
        },
        "middleware.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "middleware.ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "errors": {"type": "array", "items": {"type": "object"}}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "description": "Type 'Bearer YOUR_ID_TOKEN' to authorize.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8090",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Onyx Tutor API",
	Description:      "Backend for the Onyx AI tutor: accounts, lesson and quiz storage, and the tutor endpoints.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
