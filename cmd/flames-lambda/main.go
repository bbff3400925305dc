package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/png"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/lukaszgryglicki/flames/internal/flames"
)

const (
	maxSide = 2048
	maxSPP  = 5000
)

// renderRequest is what the query string of one request asks for.
type renderRequest struct {
	kind        string
	width       int
	height      int
	spp         int
	supersample bool
	seed        int64
	preset      string
	symmetry    int
	mirror      bool
	moebius     bool
	centerX     float64
	centerY     float64
	span        float64
	maxIter     int
}

// newRenderRequest parses the API Gateway query parameters, using defaults for anything missing.
func newRenderRequest(params map[string]string) renderRequest {
	r := renderRequest{
		kind:        params["kind"],
		width:       getIntParam(params, "width", 512),
		height:      getIntParam(params, "height", 512),
		spp:         getIntParam(params, "spp", 200),
		supersample: params["supersample"] != "",
		seed:        int64(getIntParam(params, "seed", int(time.Now().UnixNano()))),
		preset:      params["preset"],
		symmetry:    getIntParam(params, "symmetry", 0),
		mirror:      params["mirror"] != "",
		moebius:     params["moebius"] != "",
		centerX:     getFloatParam(params, "x", -0.5),
		centerY:     getFloatParam(params, "y", 0),
		span:        getFloatParam(params, "span", 3),
		maxIter:     getIntParam(params, "maxIter", 500),
	}
	if r.kind == "" {
		r.kind = "flame"
	}
	r.width = min(max(r.width, 1), maxSide)
	r.height = min(max(r.height, 1), maxSide)
	r.spp = min(max(r.spp, 1), maxSPP)
	return r
}

func (r renderRequest) renderer() (flames.Renderer, error) {
	switch r.kind {
	case "mandelbrot":
		return flames.EscapeRenderer{CenterX: r.centerX, CenterY: r.centerY, Span: r.span, MaxIter: r.maxIter}, nil
	case "julia":
		rng := rand.New(rand.NewSource(r.seed))
		c := complex(rng.Float64()*1.6-0.8, rng.Float64()*1.6-0.8)
		return flames.EscapeRenderer{Span: r.span, MaxIter: r.maxIter, Julia: true, C: c, Hue: rng.Float64() * 360}, nil
	}
	var (
		f   *flames.Flame
		err error
	)
	if r.preset != "" {
		f, err = flames.Preset(r.preset)
	} else {
		f, err = flames.RandomFlame(rand.New(rand.NewSource(r.seed)), flames.RandomCfg{
			Moebius:  r.moebius,
			Symmetry: r.symmetry,
			Mirror:   r.mirror,
		})
	}
	if err != nil {
		return nil, err
	}
	return flames.FlameRenderer{Flame: f, Opts: flames.RenderOpts{
		SamplesPerPixel: r.spp,
		Supersample:     r.supersample,
		Seed:            r.seed,
	}}, nil
}

func handleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	r := newRenderRequest(req.QueryStringParameters)
	log.Printf("Handling request: %+v", r)

	rd, err := r.renderer()
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusBadRequest, Body: err.Error()}, nil
	}
	start := time.Now()
	img, good, err := rd.Render(r.width, r.height)
	if err != nil {
		log.Printf("Render failed: %v", err)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError, Body: err.Error()}, nil
	}
	log.Printf("Rendered %dx%d %s in %s, good=%v", r.width, r.height, r.kind, time.Since(start), good)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":   "image/png",
			"X-Quality-Good": strconv.FormatBool(good),
			"X-Seed":         strconv.FormatInt(r.seed, 10),
		},
		Body:            base64.StdEncoding.EncodeToString(buf.Bytes()),
		IsBase64Encoded: true,
	}, nil
}

// Param helper functions accept a map[string]string.
func getIntParam(params map[string]string, name string, defaultValue int) int {
	valStr, ok := params[name]
	if !ok {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultValue
	}
	return val
}

func getFloatParam(params map[string]string, name string, defaultValue float64) float64 {
	valStr, ok := params[name]
	if !ok {
		return defaultValue
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		return defaultValue
	}
	return val
}

func main() {
	lambda.Start(handleRequest)
}
