package main

import (
	"fmt"
	"os"

	filmgallery "github.com/JunlongH/FilmGallery-sub001"
	"github.com/JunlongH/FilmGallery-sub001/params"
	"github.com/JunlongH/FilmGallery-sub001/render"
)

var _ = fmt.Print

func main() {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}()
	if len(os.Args) < 2 || len(os.Args) > 4 {
		fmt.Fprintln(os.Stderr, "usage: go run ./cmd/filmrender scan-file [params.json] [output-file]")
		os.Exit(1)
	}
	src, err := filmgallery.Open(os.Args[1], filmgallery.PreviewCap(2000))
	if err != nil {
		return
	}
	p := params.Defaults()
	if len(os.Args) >= 3 {
		var data []byte
		if data, err = os.ReadFile(os.Args[2]); err != nil {
			return
		}
		if p, err = params.Deserialize(data); err != nil {
			return
		}
	}
	output_file := os.Args[1] + ".rendered.png"
	if len(os.Args) == 4 {
		output_file = os.Args[3]
	}
	out, err := render.NewRenderer().Render(src, p)
	if err != nil {
		return
	}
	if err = filmgallery.SavePNG(output_file, out); err != nil {
		return
	}
	fmt.Println("PNG saved to:", output_file)
}
