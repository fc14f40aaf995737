package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"codect/internal/engine"
)

type analyzeParams struct {
	Code     *string `json:"code" validate:"required"`
	Language string  `json:"language" validate:"max=32"`
	Filename string  `json:"filename" validate:"max=255"`
}

type basicResponse struct {
	Result int `json:"result"`
}

func (s *Server) registerRoutes() {
	s.echo.GET("/", s.indexHandler)
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})
	s.echo.POST("/basic", s.basicHandler)
	s.echo.POST("/premium", s.premiumHandler)
}

func (s *Server) indexHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Codect API",
		"version": s.version,
		"endpoints": map[string]string{
			"/basic":   "Basic analysis - returns only the classification result",
			"/premium": "Detailed analysis - returns classification and all features",
			"/health":  "Health check endpoint",
		},
		"languages": s.analyzer.Languages(),
	})
}

func (s *Server) basicHandler(c echo.Context) error {
	res, err := s.analyze(c, false)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, basicResponse{Result: res.Result})
}

func (s *Server) premiumHandler(c echo.Context) error {
	res, err := s.analyze(c, true)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) analyze(c echo.Context, detailed bool) (*engine.Result, error) {
	params := new(analyzeParams)
	if err := c.Bind(params); err != nil {
		return nil, badRequest("Invalid request body")
	}
	if err := c.Validate(params); err != nil {
		return nil, badRequest("Invalid request params: " + err.Error())
	}

	req := engine.Request{
		Code:     *params.Code,
		Language: params.Language,
		Filename: params.Filename,
		Detailed: detailed,
	}
	return s.cache.Get(c.Request().Context(), req, s.analyzer.Analyze)
}
