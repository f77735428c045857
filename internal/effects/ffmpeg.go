package effects

import (
	"fmt"
	"math"
	"strings"
)

// FFmpegChain expresses the pipeline as an FFmpeg -vf filter chain for hosts
// that post-process rasterized frames. Warp and pigment have no single-input
// FFmpeg counterpart and are left out. An empty pipeline gives "".
func FFmpegChain(p Pipeline, width, height int) string {
	var filters []string
	for _, s := range p.Stages {
		switch s.Kind {
		case Smoothing:
			filters = append(filters, fmt.Sprintf("smartblur=lr=%.2f:ls=%.2f",
				math.Max(0.1, math.Min(5, s.Params.Scale)), -math.Min(1, s.Params.Intensity)))
		case Grain:
			filters = append(filters, fmt.Sprintf("noise=alls=%d:allf=u", noiseStrength(s.Params.Opacity)))
		case FilmGrain:
			filters = append(filters, fmt.Sprintf("noise=alls=%d:allf=t+u",
				noiseStrength(math.Min(s.Params.Opacity, MaxFilmGrainOpacity))))
		case Grade:
			filters = append(filters, fmt.Sprintf("drawbox=x=0:y=0:w=%d:h=%d:color=0x%s@%.3f:t=fill",
				width, height, strings.TrimPrefix(ParseColor(s.Params.Color), "#"), s.Params.Opacity))
		case Vignette:
			filters = append(filters, fmt.Sprintf("vignette=a=%.4f", s.Params.Intensity*math.Pi/2))
		}
	}
	return strings.Join(filters, ",")
}

// noiseStrength maps an overlay opacity to the noise filter's 0-100 range.
func noiseStrength(opacity float64) int {
	v := int(math.Round(opacity * 100))
	if v < 1 {
		v = 1
	}
	if v > 100 {
		v = 100
	}
	return v
}
