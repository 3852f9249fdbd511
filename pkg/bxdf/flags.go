package bxdf

// BxDFFlags classifies what kinds of scattering a model can produce
type BxDFFlags uint8

const (
	FlagUnset        BxDFFlags = 0
	FlagReflection   BxDFFlags = 1 << 0
	FlagTransmission BxDFFlags = 1 << 1
	FlagDiffuse      BxDFFlags = 1 << 2
	FlagGlossy       BxDFFlags = 1 << 3
	FlagSpecular     BxDFFlags = 1 << 4

	// Composite flags
	FlagDiffuseReflection    = FlagDiffuse | FlagReflection
	FlagDiffuseTransmission  = FlagDiffuse | FlagTransmission
	FlagGlossyReflection     = FlagGlossy | FlagReflection
	FlagGlossyTransmission   = FlagGlossy | FlagTransmission
	FlagSpecularReflection   = FlagSpecular | FlagReflection
	FlagSpecularTransmission = FlagSpecular | FlagTransmission
	FlagAll                  = FlagDiffuse | FlagGlossy | FlagSpecular | FlagReflection | FlagTransmission
)

// IsReflective reports whether the flags include a reflection lobe
func (f BxDFFlags) IsReflective() bool { return f&FlagReflection != 0 }

// IsTransmissive reports whether the flags include a transmission lobe
func (f BxDFFlags) IsTransmissive() bool { return f&FlagTransmission != 0 }

// IsDiffuse reports whether the flags include a diffuse lobe
func (f BxDFFlags) IsDiffuse() bool { return f&FlagDiffuse != 0 }

// IsGlossy reports whether the flags include a glossy lobe
func (f BxDFFlags) IsGlossy() bool { return f&FlagGlossy != 0 }

// IsSpecular reports whether the flags include a specular (delta) lobe
func (f BxDFFlags) IsSpecular() bool { return f&FlagSpecular != 0 }

// IsNonSpecular reports whether the flags include a lobe with finite sampling
// density, which is what makes MIS against the model meaningful
func (f BxDFFlags) IsNonSpecular() bool { return f&(FlagDiffuse|FlagGlossy) != 0 }

// ReflTransFlags restricts which lobes a sampling call may draw from
type ReflTransFlags uint8

const (
	ReflTransUnset        ReflTransFlags = 0
	ReflTransReflection   ReflTransFlags = 1 << 0
	ReflTransTransmission ReflTransFlags = 1 << 1
	ReflTransAll                         = ReflTransReflection | ReflTransTransmission
)

// HasReflection reports whether reflection samples are permitted
func (f ReflTransFlags) HasReflection() bool { return f&ReflTransReflection != 0 }

// HasTransmission reports whether transmission samples are permitted
func (f ReflTransFlags) HasTransmission() bool { return f&ReflTransTransmission != 0 }

// TransportMode distinguishes paths traced from the camera (Radiance) from
// paths traced from a light (Importance). Refraction is not symmetric between
// the two: transmission terms pick up a 1/eta^2 factor in radiance mode.
type TransportMode int

const (
	Radiance TransportMode = iota
	Importance
)

// Other returns the opposite transport mode
func (m TransportMode) Other() TransportMode {
	if m == Radiance {
		return Importance
	}
	return Radiance
}
