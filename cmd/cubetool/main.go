package main

import (
	"fmt"
	"os"

	"github.com/JunlongH/FilmGallery-sub001/lut3d"
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
	if len(os.Args) < 3 || len(os.Args) > 4 {
		fmt.Fprintln(os.Stderr, "usage: go run ./cmd/cubetool {normalize|invert} input.cube [output.cube]")
		os.Exit(1)
	}
	mode := os.Args[1]
	if mode != "normalize" && mode != "invert" {
		fmt.Fprintf(os.Stderr, "unknown mode: %s\n", mode)
		os.Exit(1)
	}
	in, err := os.Open(os.Args[2])
	if err != nil {
		return
	}
	cube, err := lut3d.Parse(in)
	in.Close()
	if err != nil {
		return
	}
	if mode == "invert" {
		cube = lut3d.Invert(cube, cube.Size)
	}
	output_file := os.Args[2] + "." + mode + ".cube"
	if len(os.Args) == 4 {
		output_file = os.Args[3]
	}
	out, err := os.OpenFile(output_file, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		return
	}
	defer out.Close()
	if err = cube.Encode(out, "cubetool "+mode); err != nil {
		return
	}
	fmt.Println("Cube saved to:", output_file)
}
