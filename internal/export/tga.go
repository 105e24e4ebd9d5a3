package export

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
)

// TGA image types.
const (
	tgaUncompressed = 2
	tgaRLE          = 10
)

// tgaTopLeft is the descriptor bit for rows stored top to bottom.
const tgaTopLeft = 0x20

// EncodeTGA writes img as a 32-bit RLE TGA with the origin at the top left.
// Game engines load this format directly, with straight alpha.
func EncodeTGA(w io.Writer, img image.Image) error {
	b := img.Bounds()
	if b.Dx() > 0xFFFF || b.Dy() > 0xFFFF {
		return fmt.Errorf("TGA size %dx%d too large", b.Dx(), b.Dy())
	}

	var header [18]byte
	header[2] = tgaRLE
	header[12], header[13] = byte(b.Dx()), byte(b.Dx()>>8)
	header[14], header[15] = byte(b.Dy()), byte(b.Dy()>>8)
	header[16] = 32
	header[17] = tgaTopLeft | 8

	bw := bufio.NewWriter(w)
	bw.Write(header[:])

	row := make([][4]byte, b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			row[x-b.Min.X] = [4]byte{c.B, c.G, c.R, c.A}
		}
		writeRLERow(bw, row)
	}
	return bw.Flush()
}

// writeRLERow packs one row. Packets never cross rows and hold at most 128
// pixels.
func writeRLERow(w *bufio.Writer, row [][4]byte) {
	for i := 0; i < len(row); {
		run := 1
		for i+run < len(row) && run < 128 && row[i+run] == row[i] {
			run++
		}
		if run > 1 {
			w.WriteByte(0x80 | byte(run-1))
			w.Write(row[i][:])
			i += run
			continue
		}

		// Raw packet up to the next run of two.
		n := 1
		for i+n < len(row) && n < 128 && (i+n+1 >= len(row) || row[i+n] != row[i+n+1]) {
			n++
		}
		w.WriteByte(byte(n - 1))
		for _, px := range row[i : i+n] {
			w.Write(px[:])
		}
		i += n
	}
}

// DecodeTGA decodes uncompressed and RLE true-color TGA data with 24 or
// 32 bits per pixel.
func DecodeTGA(data []byte) (*image.NRGBA, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("TGA data too short")
	}
	idLength := int(data[0])
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&tgaTopLeft != 0

	if data[1] != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != tgaUncompressed && imageType != tgaRLE {
		return nil, fmt.Errorf("unsupported TGA type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d", bpp)
	}
	if 18+idLength > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}
	src := data[18+idLength:]
	size := bpp / 8

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	put := func(idx int, px []byte) {
		x, y := idx%width, idx/width
		if !topToBottom {
			y = height - 1 - y
		}
		a := uint8(255)
		if size == 4 {
			a = px[3]
		}
		img.SetNRGBA(x, y, color.NRGBA{R: px[2], G: px[1], B: px[0], A: a})
	}

	total := width * height
	if imageType == tgaUncompressed {
		if len(src) < total*size {
			return nil, fmt.Errorf("TGA pixel data truncated")
		}
		for i := 0; i < total; i++ {
			put(i, src[i*size:])
		}
		return img, nil
	}

	pos := 0
	for idx := 0; idx < total; {
		if pos >= len(src) {
			return nil, fmt.Errorf("TGA RLE data truncated at pixel %d", idx)
		}
		packet := src[pos]
		pos++
		count := int(packet&0x7F) + 1
		if packet&0x80 != 0 {
			if pos+size > len(src) {
				return nil, fmt.Errorf("TGA RLE data truncated at pixel %d", idx)
			}
			for i := 0; i < count && idx < total; i++ {
				put(idx, src[pos:])
				idx++
			}
			pos += size
			continue
		}
		for i := 0; i < count && idx < total; i++ {
			if pos+size > len(src) {
				return nil, fmt.Errorf("TGA RLE data truncated at pixel %d", idx)
			}
			put(idx, src[pos:])
			pos += size
			idx++
		}
	}
	return img, nil
}
