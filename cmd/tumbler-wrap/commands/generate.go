package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironsheep/tumbler-wrap/internal/geometry"
	"github.com/ironsheep/tumbler-wrap/internal/imaging"
	"github.com/ironsheep/tumbler-wrap/internal/wrap"
)

// vesselFlags are the vessel dimensions shared by generate and sector.
type vesselFlags struct {
	preset     string
	top        float64
	bottom     float64
	height     float64
	width      float64
	wrapHeight float64
	fullWidth  bool
}

func (v *vesselFlags) bindCone(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&v.top, "top", 0, "top rim diameter in inches")
	cmd.Flags().Float64Var(&v.bottom, "bottom", 0, "bottom rim diameter in inches")
	cmd.Flags().Float64Var(&v.height, "height", 0, "printable height in inches")
	cmd.Flags().BoolVar(&v.fullWidth, "full-width", false, "keep the full outer-circle canvas width for tapered wraps; "+
		"large cups usually need a higher --max-pixels")
}

func (v *vesselFlags) cone(cmd *cobra.Command) *geometry.ConeSpec {
	if !cmd.Flags().Changed("top") && !cmd.Flags().Changed("bottom") && !cmd.Flags().Changed("height") {
		return nil
	}
	return &geometry.ConeSpec{TopDiameter: v.top, BottomDiameter: v.bottom, Height: v.height}
}

func generateCmd(a *app) *cobra.Command {
	var (
		v        vesselFlags
		wrapType string
		output   string
		guides   bool
		format   string
	)

	cmd := &cobra.Command{
		Use:   "generate <image path or URL>",
		Short: "Render a wrap from an image",
		Example: "  tumbler-wrap generate flowers.jpg --wrap tapered --preset \"20oz Skinny Tapered\"\n" +
			"  tumbler-wrap generate https://example.com/a.png --wrap seamless --width 9.3 --wrap-height 8.2",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bg, err := imaging.ParseColor(a.cfg.Background)
			if err != nil {
				return err
			}
			f, err := imaging.ParseFormat(format)
			if err != nil {
				return err
			}

			req := wrap.Request{
				WrapType:        wrap.Type(wrapType),
				Preset:          v.preset,
				Cone:            v.cone(cmd),
				DPI:             a.cfg.DPI,
				Background:      bg,
				Guides:          guides,
				GuideColor:      a.cfg.GuideColor,
				FullWidthSector: v.fullWidth,
				MaxPixels:       a.cfg.MaxPixels,
			}
			if cmd.Flags().Changed("width") || cmd.Flags().Changed("wrap-height") {
				req.Dimensions = &geometry.Dimensions{Width: v.width, Height: v.wrapHeight}
			}
			if _, err := wrap.Resolve(req); err != nil {
				return err
			}

			src, err := imaging.NewLoader(nil).Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			req.Source = src

			start := time.Now()
			res, err := wrap.Generate(req)
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = filepath.Join(a.cfg.OutputDir, wrap.Filename(a.cfg.Product, string(res.WrapType), time.Now(), f))
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			if err := imaging.Save(path, res.Image); err != nil {
				return err
			}

			w, h := res.Shape.Size()
			a.logger.Info("wrap written", "path", path, "width", w, "height", h, "elapsed", time.Since(start))
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%dx%d px, %s, %g dpi)\n", path, w, h, res.WrapType, res.DPI)
			return nil
		},
	}

	cmd.Flags().StringVarP(&wrapType, "wrap", "w", string(wrap.TypeStraight), "wrap type: straight, seamless or tapered")
	cmd.Flags().StringVar(&v.preset, "preset", "", "vessel preset (see presets)")
	v.bindCone(cmd)
	cmd.Flags().Float64Var(&v.width, "width", 0, "flat wrap width in inches")
	cmd.Flags().Float64Var(&v.wrapHeight, "wrap-height", 0, "flat wrap height in inches")
	cmd.Flags().StringVarP(&output, "out", "o", "", "output file (.png or .tif); default is a timestamped name in --out-dir")
	cmd.Flags().StringVar(&format, "format", "png", "output format when --out is not given: png or tiff")
	cmd.Flags().BoolVar(&guides, "guides", false, "draw a one-inch proofing grid")
	return cmd
}
