package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/models"
)

const OpenAPIPath = "/api/v1/openapi.json"

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/analyze").
			To(handler.Analyze).
			Doc("Rebuild the directory tree of a shell session and report directory sizes").
			Metadata(restfulspec.KeyOpenAPITags, []string{"analyze"}).
			Reads(AnalyzeRequest{}).
			Writes(models.Report{}).
			Returns(200, "OK", models.Report{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(413, "Request Entity Too Large", middleware.ErrorResponse{}).
			Returns(422, "Malformed Trace", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/analyze/raw").
			To(handler.AnalyzeRaw).
			Doc("Analyze a plain text shell session").
			Metadata(restfulspec.KeyOpenAPITags, []string{"analyze"}).
			Consumes("text/plain").
			Param(ws.QueryParameter("id", "Request identifier").DataType("string").Required(false)).
			Param(ws.QueryParameter("capacity", "Total disk capacity (default 70000000)").DataType("integer").Required(false)).
			Param(ws.QueryParameter("required", "Free space needed (default 30000000)").DataType("integer").Required(false)).
			Param(ws.QueryParameter("threshold", "Small directory threshold (default 100000)").DataType("integer").Required(false)).
			Writes(models.Report{}).
			Returns(200, "OK", models.Report{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(413, "Request Entity Too Large", middleware.ErrorResponse{}).
			Returns(422, "Malformed Trace", middleware.ErrorResponse{}))

	container.Add(ws)
}

// RegisterOpenAPI serves the OpenAPI document of every registered web service.
// Call it after RegisterRoutes.
func RegisterOpenAPI(container *restful.Container) {
	config := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       OpenAPIPath,
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}

	container.Add(restfulspec.NewOpenAPIService(config))
}

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "FS Agent API",
			Description: "Directory size analysis of recorded shell sessions",
			Version:     Version,
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "analyze", Description: "Trace analysis"}},
	}
}
