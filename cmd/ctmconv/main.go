// ctmconv is a CLI utility for converting meshes to and from the CTM
// container format.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/meshkit/ctm/internal/config"
	"github.com/meshkit/ctm/internal/logger"
	"github.com/meshkit/ctm/pkg/ctm"
	"github.com/meshkit/ctm/pkg/obj"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	config.ParseFlags(os.Args[2:])
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	defer logger.Sync()

	args := flag.Args()

	switch command {
	case "info":
		cmdInfo(args)
	case "convert", "conv":
		cmdConvert(cfg, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`ctmconv - CTM mesh container utility

Usage:
  ctmconv <command> [options] <args>

Commands:
  info <file.ctm>                Show container information
  convert <input> <output>       Convert between OBJ and CTM (by extension)

Options:
  -method <raw|mg1|mg2>          Compression method for CTM output
  -precision <p>                 Absolute vertex precision
  -rel-precision <r>             Precision relative to mean edge length
  -comment <text>                File comment to embed
  -config <path>                 Config file path
  -debug                         Enable debug logging

Examples:
  ctmconv info model.ctm
  ctmconv convert -method mg2 -rel-precision 0.01 model.obj model.ctm
  ctmconv convert model.ctm model.obj`)
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: ctmconv info <file.ctm>")
		os.Exit(1)
	}

	c := ctm.NewContext(ctm.Import)
	if err := c.LoadFile(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("File:           %s\n", args[0])
	fmt.Printf("Vertices:       %d\n", c.GetInteger(ctm.PropVertexCount))
	fmt.Printf("Triangles:      %d\n", c.GetInteger(ctm.PropTriangleCount))
	fmt.Printf("Normals:        %v\n", c.GetInteger(ctm.PropHasNormals) != 0)
	fmt.Printf("Texture maps:   %d\n", c.GetInteger(ctm.PropTexMapCount))
	for i := uint32(0); i < c.GetInteger(ctm.PropTexMapCount); i++ {
		fmt.Printf("  [%d] %s\n", i, c.GetString(ctm.PropTexMap1+ctm.Property(i)))
	}
	fmt.Printf("Attribute maps: %d\n", c.GetInteger(ctm.PropAttribMapCount))
	for i := uint32(0); i < c.GetInteger(ctm.PropAttribMapCount); i++ {
		fmt.Printf("  [%d] %s\n", i, c.GetString(ctm.PropAttribMap1+ctm.Property(i)))
	}
	if comment := c.GetString(ctm.PropFileComment); comment != "" {
		fmt.Printf("Comment:        %s\n", comment)
	}
}

func cmdConvert(cfg *config.Config, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: ctmconv convert [options] <input> <output>")
		os.Exit(1)
	}
	in, out := args[0], args[1]

	model, err := readMesh(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Sugar.Debugw("mesh loaded",
		"input", in,
		"vertices", model.VertexCount(),
		"triangles", model.TriangleCount())

	if err := writeMesh(cfg, out, model); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Sugar.Infow("converted", "input", in, "output", out)
}

func readMesh(path string) (*obj.Model, error) {
	switch ext(path) {
	case ".obj":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return obj.Decode(f)
	case ".ctm":
		c := ctm.NewContext(ctm.Import)
		if err := c.LoadFile(path); err != nil {
			return nil, err
		}
		model := &obj.Model{
			Vertices: c.GetFloatArray(ctm.PropVertices),
			Normals:  c.GetFloatArray(ctm.PropNormals),
			Indices:  c.GetIntegerArray(ctm.PropIndices),
		}
		if c.GetInteger(ctm.PropTexMapCount) > 0 {
			model.TexCoords = c.GetFloatArray(ctm.PropTexMap1)
		}
		return model, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", path)
	}
}

func writeMesh(cfg *config.Config, path string, model *obj.Model) error {
	switch ext(path) {
	case ".obj":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return obj.Encode(f, model)
	case ".ctm":
		return writeCTM(cfg, path, model)
	default:
		return fmt.Errorf("unsupported output format: %s", path)
	}
}

func writeCTM(cfg *config.Config, path string, model *obj.Model) error {
	c := ctm.NewContext(ctm.Export)
	if err := c.DefineMesh(model.Vertices, model.Indices, model.Normals); err != nil {
		return err
	}

	method, err := parseMethod(cfg.Convert.Method)
	if err != nil {
		return err
	}
	if err := c.CompressionMethod(method); err != nil {
		return err
	}
	if cfg.Convert.RelativePrecision > 0 {
		if err := c.VertexPrecisionRel(cfg.Convert.RelativePrecision); err != nil {
			return err
		}
	} else if cfg.Convert.VertexPrecision > 0 {
		if err := c.VertexPrecision(cfg.Convert.VertexPrecision); err != nil {
			return err
		}
	}
	if cfg.Convert.Comment != "" {
		if err := c.FileComment(cfg.Convert.Comment); err != nil {
			return err
		}
	}
	if model.TexCoords != nil {
		if _, err := c.AddTexMap(model.TexCoords, "uv0"); err != nil {
			return err
		}
	}

	return c.SaveFile(path)
}

func parseMethod(name string) (ctm.Method, error) {
	switch strings.ToLower(name) {
	case "raw":
		return ctm.MethodRaw, nil
	case "mg1", "":
		return ctm.MethodMG1, nil
	case "mg2":
		return ctm.MethodMG2, nil
	default:
		return 0, fmt.Errorf("unknown method %q", name)
	}
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
