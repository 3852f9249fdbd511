package main

import (
	"flag"
	"fmt"
	"math"
	"time"

	"github.com/df07/go-layered-bsdf/pkg/bxdf"
	"github.com/df07/go-layered-bsdf/pkg/core"
)

func main() {
	// Parse command line flags
	model := flag.String("bxdf", "coateddiffuse", "Scattering model to check")
	samples := flag.Int("samples", 65536, "Importance samples per incidence angle")
	roughness := flag.Float64("roughness", 0.1, "Surface roughness for glossy models")
	seed := flag.Uint64("seed", 0, "Process-wide stochastic seed")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("BSDF furnace check")
		fmt.Println("Usage: bsdfcheck [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available models:")
		fmt.Println("  diffuse         - ideal Lambertian reflector")
		fmt.Println("  orennayar       - rough diffuse reflector")
		fmt.Println("  dielectric      - rough dielectric interface")
		fmt.Println("  thindielectric  - thin dielectric slab")
		fmt.Println("  conductor       - rough gold conductor")
		fmt.Println("  hair            - dielectric fiber")
		fmt.Println("  coateddiffuse   - dielectric coat over diffuse substrate")
		fmt.Println("  coatedconductor - dielectric coat over gold substrate")
		fmt.Println()
		fmt.Println("Reports the hemispherical albedo estimate per incidence angle;")
		fmt.Println("any channel above 1 indicates an energy-conservation bug.")
		return
	}

	bxdf.WalkSeed = *seed

	b, err := buildModel(*model, *roughness)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("Checking %q (flags %#x) with %d samples per angle...\n", *model, b.Flags(), *samples)
	startTime := time.Now()

	violations := 0
	for _, deg := range []float64{5, 15, 30, 45, 60, 75, 85} {
		theta := deg * math.Pi / 180
		wo := core.NewVec3(math.Sin(theta), 0, math.Cos(theta))
		sampler := core.NewSeededSampler(*seed, core.Hash(0, deg))
		albedo := bxdf.Rho(b, wo, sampler, *samples)
		mark := ""
		if albedo.MaxComponent() > 1.001 {
			mark = "  <-- energy violation"
			violations++
		}
		fmt.Printf("  theta=%2.0f  albedo=(%.4f, %.4f, %.4f)%s\n", deg, albedo.R, albedo.G, albedo.B, mark)
	}

	fmt.Printf("Done in %v, %d violation(s)\n", time.Since(startTime), violations)
}

// buildModel constructs the named scattering model with representative
// parameters
func buildModel(name string, roughness float64) (bxdf.BxDF, error) {
	alpha := bxdf.RoughnessToAlpha(roughness)
	dist := bxdf.NewTrowbridgeReitz(alpha, alpha)
	white := core.NewUniformSpectrum(1)
	goldEta := core.NewSpectrum(0.143, 0.375, 1.44)
	goldK := core.NewSpectrum(3.98, 2.39, 1.60)

	switch name {
	case "diffuse":
		return bxdf.NewIdealDiffuse(core.NewSpectrum(0.8, 0.7, 0.6)), nil
	case "orennayar":
		return bxdf.NewDiffuse(core.NewSpectrum(0.8, 0.7, 0.6), core.Spectrum{}, 20), nil
	case "dielectric":
		return bxdf.NewDielectricInterface(1.5, dist, white, white), nil
	case "thindielectric":
		return bxdf.NewThinDielectric(1.5), nil
	case "conductor":
		return bxdf.NewConductor(dist, goldEta, goldK), nil
	case "hair":
		return bxdf.NewHair(0.3, 1.55, bxdf.SigmaAFromConcentration(1.3, 0.2), 0.3, 0.3, 2), nil
	case "coateddiffuse":
		top := bxdf.NewDielectricInterface(1.5, dist, white, white)
		bottom := bxdf.NewIdealDiffuse(core.NewSpectrum(0.6, 0.3, 0.2))
		return bxdf.NewCoatedDiffuse(top, bottom, 0.01, core.Spectrum{}, 0, bxdf.DefaultLayeredConfig()), nil
	case "coatedconductor":
		top := bxdf.NewDielectricInterface(1.5, dist, white, white)
		bottom := bxdf.NewConductor(dist, goldEta, goldK)
		return bxdf.NewCoatedConductor(top, bottom, 0.01, core.Spectrum{}, 0, bxdf.DefaultLayeredConfig()), nil
	}
	return nil, fmt.Errorf("unknown model %q, see -help for the list", name)
}
