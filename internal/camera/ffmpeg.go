package camera

import (
	"fmt"
	"strings"
)

// ZoomPanFilter expresses a keyframe path as an FFmpeg zoompan filter for
// hosts that rasterize a scene's background once and let FFmpeg move the
// camera over it. Segments are linear; frame numbers are scene-local.
func ZoomPanFilter(keyframes []Keyframe, width, height, fps int) string {
	if len(keyframes) == 0 {
		return ""
	}

	zoomExpr := piecewise(keyframes, func(k Keyframe) float64 { return k.Pose().Zoom })
	xExpr := piecewise(keyframes, func(k Keyframe) float64 { return k.X })
	yExpr := piecewise(keyframes, func(k Keyframe) float64 { return k.Y })

	return fmt.Sprintf("zoompan=z='%s':x='(%s)-iw/zoom/2':y='(%s)-ih/zoom/2':d=1:s=%dx%d:fps=%d",
		zoomExpr, xExpr, yExpr, width, height, fps)
}

// piecewise builds nested if(lte(on,end),start+(on-from)/span*(to-start),...)
// expressions over consecutive keyframes.
func piecewise(keyframes []Keyframe, value func(Keyframe) float64) string {
	if len(keyframes) == 1 {
		return fmt.Sprintf("%.6f", value(keyframes[0]))
	}

	var b strings.Builder
	open := 0
	for i := 0; i < len(keyframes)-1; i++ {
		from, to := keyframes[i], keyframes[i+1]
		span := to.Frame - from.Frame
		if span <= 0 {
			continue
		}
		if i == 0 {
			fmt.Fprintf(&b, "if(lt(on,%d),%.6f,", from.Frame, value(from))
			open++
		}
		fmt.Fprintf(&b, "if(lte(on,%d),%.6f+(on-%d)/%d*(%.6f-%.6f),",
			to.Frame, value(from), from.Frame, span, value(to), value(from))
		open++
	}
	fmt.Fprintf(&b, "%.6f", value(keyframes[len(keyframes)-1]))
	b.WriteString(strings.Repeat(")", open))
	return b.String()
}
