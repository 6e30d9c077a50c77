/*
 * colors.go, part of mdconv.
 *
 * Copyright 2026 The mdconv Authors
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
*/

package chemplot

import (
	"image/color"
	"math"
)

//hsv2rgb takes hue (0-360), saturation and value (0-1) and returns r,g,b (0-255).
func hsv2rgb(h, s, v float64) (uint8, uint8, uint8) {
	max := 255 * v
	if s == 0 {
		return uint8(max), uint8(max), uint8(max)
	}
	h = math.Mod(h, 360) / 60
	sector := math.Floor(h)
	f := h - sector
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	var r, g, b float64
	switch int(sector) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return uint8(r * max), uint8(g * max), uint8(b * max)
}

//seriesColor returns the color for the key-th of steps series. The hues
//are spread between red and violet, skipping the yellows, which are hard
//to see on white.
func seriesColor(key, steps int) color.RGBA {
	h := float64(key)*260/float64(steps) + 20
	if h < 55 {
		h -= 20
	} else {
		h += 20
	}
	r, g, b := hsv2rgb(h, 1, 1)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
