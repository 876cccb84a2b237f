package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/tumbler-wrap/internal/geometry"
	"github.com/ironsheep/tumbler-wrap/internal/wrap"
)

func sectorCmd(a *app) *cobra.Command {
	var (
		v      vesselFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "sector",
		Short: "Print the unrolled sector of a tapered cup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cone := v.cone(cmd)
			if cone == nil {
				if v.preset == "" {
					return fmt.Errorf("give --top, --bottom and --height, or a tapered --preset")
				}
				p, err := wrap.LookupPreset(v.preset)
				if err != nil {
					return err
				}
				if !p.Tapered() {
					return fmt.Errorf("%w: preset %q is not tapered", geometry.ErrInvalidDimensions, p.Name)
				}
				cone = p.Cone
			}

			f, err := geometry.Unroll(*cone)
			if err != nil {
				return err
			}
			s, err := geometry.ComputeSector(*cone, a.cfg.DPI)
			if err != nil {
				return err
			}
			if !v.fullWidth {
				s = s.Trim()
			}
			w, h := s.CanvasSize()

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"dpi":     a.cfg.DPI,
					"frustum": f,
					"sector":  s,
					"canvas":  geometry.Rectangle{Width: w, Height: h},
				})
			}

			fmt.Fprintf(out, "Cone:          top %gin, bottom %gin, height %gin\n", cone.TopDiameter, cone.BottomDiameter, cone.Height)
			fmt.Fprintf(out, "Slant height:  %.4fin (apex %.4fin)\n", f.SlantHeight, f.FullConeSlantHeight)
			fmt.Fprintf(out, "Outer radius:  %.2fpx\n", s.OuterRadius)
			fmt.Fprintf(out, "Inner radius:  %.2fpx\n", s.InnerRadius)
			fmt.Fprintf(out, "Angle span:    %.6f rad\n", s.AngleSpan)
			fmt.Fprintf(out, "Canvas:        %dx%d px at %g dpi\n", w, h, a.cfg.DPI)
			return nil
		},
	}

	cmd.Flags().StringVar(&v.preset, "preset", "", "tapered vessel preset")
	v.bindCone(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
