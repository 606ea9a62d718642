package pattern

import (
	"image"
	"runtime"
	"sync"
)

// BT.601 full-range coefficients, 16.16 fixed point.
const (
	yR  = 19595
	yG  = 38470
	yB  = 7471
	cbR = -11056
	cbG = -21712
	cbB = 32768
	crR = 32768
	crG = -27440
	crB = -5328
)

func rgbToY(r, g, b int32) uint8 {
	return uint8((yR*r + yG*g + yB*b + 1<<15) >> 16)
}

func rgbToCb(r, g, b int32) uint8 {
	cb := cbR*r + cbG*g + cbB*b + 257<<15
	if uint32(cb)&0xff000000 == 0 {
		cb >>= 16
	} else {
		cb = ^(cb >> 31)
	}
	return uint8(cb)
}

func rgbToCr(r, g, b int32) uint8 {
	cr := crR*r + crG*g + crB*b + 257<<15
	if uint32(cr)&0xff000000 == 0 {
		cr >>= 16
	} else {
		cr = ^(cr >> 31)
	}
	return uint8(cr)
}

// I420Size is the byte size of an I420 buffer with the given padded
// dimensions.
func I420Size(stride, rows int) int {
	return stride*rows + 2*(stride/2)*(rows/2)
}

// RGBASize is the byte size of an RGBA buffer with the given padded
// dimensions.
func RGBASize(stride, rows int) int {
	return stride * rows * 4
}

// parallelRows splits [0, height) across the available CPUs. Ranges start on
// even rows so each worker owns whole chroma rows.
func parallelRows(height int, fn func(startY, endY int)) {
	workers := runtime.NumCPU()
	rowsPerWorker := (height/workers + 1) &^ 1
	if rowsPerWorker < 2 {
		rowsPerWorker = 2
	}

	var wg sync.WaitGroup
	for startY := 0; startY < height; startY += rowsPerWorker {
		endY := startY + rowsPerWorker
		if endY > height {
			endY = height
		}
		wg.Add(1)
		go func(startY, endY int) {
			defer wg.Done()
			fn(startY, endY)
		}(startY, endY)
	}
	wg.Wait()
}

// ToI420 converts img into a planar I420 buffer whose luma plane is stride
// bytes wide and rows lines high. The image is placed at the top-left; the
// padding is left untouched. dst must hold I420Size(stride, rows) bytes and
// img must fit inside stride x rows.
func ToI420(dst []byte, img *image.RGBA, stride, rows int) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	cStride := stride / 2
	yPlane := dst[:stride*rows]
	uPlane := dst[stride*rows : stride*rows+cStride*(rows/2)]
	vPlane := dst[stride*rows+cStride*(rows/2):]

	parallelRows(height, func(startY, endY int) {
		for y := startY; y < endY; y++ {
			src := img.Pix[y*img.Stride:]
			yRow := yPlane[y*stride:]
			chroma := y&1 == 0
			uRow := uPlane[(y/2)*cStride:]
			vRow := vPlane[(y/2)*cStride:]

			for x := 0; x < width; x++ {
				o := x * 4
				r := int32(src[o])
				g := int32(src[o+1])
				b := int32(src[o+2])

				yRow[x] = rgbToY(r, g, b)
				if chroma && x&1 == 0 {
					uRow[x/2] = rgbToCb(r, g, b)
					vRow[x/2] = rgbToCr(r, g, b)
				}
			}
		}
	})
}

// ToRGBA copies img into a packed RGBA buffer with stride pixels per line.
func ToRGBA(dst []byte, img *image.RGBA, stride int) {
	b := img.Bounds()
	lineBytes := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		copy(dst[y*stride*4:y*stride*4+lineBytes], img.Pix[y*img.Stride:y*img.Stride+lineBytes])
	}
}
