// Package docs registra la especificación OpenAPI servida en /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "summary": "Liveness",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/login": {
            "post": {
                "summary": "Autenticación: devuelve un JWT de sesión",
                "parameters": [{"name": "credentials", "in": "body", "required": true, "schema": {"type": "object", "properties": {"username": {"type": "string"}, "password": {"type": "string"}}}}],
                "responses": {
                    "200": {"description": "Token emitido"},
                    "401": {"description": "Usuario incorrecto"}
                }
            }
        },
        "/patients": {
            "post": {
                "summary": "Alta de paciente",
                "responses": {
                    "201": {"description": "Paciente creado"},
                    "400": {"description": "Faltan NHC o nombre"}
                }
            },
            "get": {
                "summary": "Listado de pacientes",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/patients/nhc": {
            "get": {
                "summary": "Genera un NHC aleatorio",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/patients/{patientID}": {
            "get": {
                "summary": "Ficha del paciente",
                "parameters": [{"name": "patientID", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "No existe"}
                }
            }
        },
        "/patients/{patientID}/visits": {
            "post": {
                "summary": "Registra una visita de seguimiento",
                "parameters": [{"name": "patientID", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "201": {"description": "Visita creada"},
                    "404": {"description": "Paciente no existe"}
                }
            },
            "get": {
                "summary": "Historial de visitas del paciente",
                "parameters": [{"name": "patientID", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/patients/{patientID}/visits/validate": {
            "post": {
                "summary": "Valida un plan terapéutico con el agente",
                "description": "Devuelve el dictamen normalizado y su clasificación. Sin agente configurado el estado es Offline; un fallo de transporte produce estado Error. Nunca falla por culpa del agente.",
                "parameters": [{"name": "patientID", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Dictamen"}}
            }
        },
        "/patients/{patientID}/chat": {
            "post": {
                "summary": "Asistente virtual del paciente",
                "parameters": [{"name": "patientID", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Respuesta del asistente"}}
            }
        },
        "/catalogs/adverse-effects": {
            "get": {
                "summary": "Catálogo de efectos adversos frecuentes por medicación",
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "AIJ-Connect API",
	Description:      "Plataforma de reumatología pediátrica: alta de pacientes, visitas de seguimiento, validación de planes terapéuticos y asistente virtual.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
