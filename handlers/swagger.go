package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>clinicdesk — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document covering the main API surface.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "clinicdesk", "version": "v0.1.0" },
  "paths": {
    "/api/auth/signup": {
      "post": { "summary": "Register a doctor account", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"name":{"type":"string"},"email":{"type":"string"},"password":{"type":"string"},"specialty":{"type":"string"}}}}}}, "responses": { "201": { "description": "doctor created" }, "409": { "description": "email already registered" } } }
    },
    "/api/auth/login": {
      "post": { "summary": "Log in and receive a bearer token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}}, "responses": { "200": { "description": "token and doctor returned" }, "401": { "description": "invalid credentials" } } }
    },
    "/api/auth/logout": {
      "post": { "summary": "Revoke the presented token", "responses": { "200": { "description": "logged out" } } }
    },
    "/api/patients": {
      "get": { "summary": "List the doctor's patients", "responses": { "200": { "description": "patients" } } },
      "post": { "summary": "Create a patient", "responses": { "201": { "description": "patient created" }, "409": { "description": "duplicate contact number or email" } } }
    },
    "/api/patients/{patientId}": {
      "get": { "summary": "Fetch one patient", "responses": { "200": { "description": "patient" }, "404": { "description": "not found" } } },
      "put": { "summary": "Update a patient", "responses": { "200": { "description": "patient updated" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a patient", "responses": { "200": { "description": "patient deleted" }, "404": { "description": "not found" } } }
    },
    "/api/visits": {
      "get": { "summary": "List visits for a patient (patientId query required)", "responses": { "200": { "description": "visits, newest first" } } },
      "post": { "summary": "Record a visit", "responses": { "201": { "description": "visit recorded" } } }
    },
    "/api/appointments": {
      "get": { "summary": "List appointments, optionally windowed by startDate/endDate", "responses": { "200": { "description": "appointments, ascending by start time" } } },
      "post": { "summary": "Schedule an appointment", "responses": { "201": { "description": "appointment scheduled" } } }
    },
    "/api/dashboard": {
      "get": { "summary": "Practice overview counts", "responses": { "200": { "description": "summary" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
