package config

const (
	defaultDatasetRoot   = "/Volumes/Ext_SSD/e-gmd-v1.0.0"
	defaultMetadataName  = "e-gmd-v1.0.0.csv"
	defaultTestDir       = "Test"
	defaultTrainDir      = "Train"
	defaultValidationDir = "Val"
	defaultNFFT          = 2048
	defaultHopLength     = 256
	defaultWinLength     = 2048
	defaultWindow        = "hann"
	defaultNumMels       = 64
	defaultTopDB         = 80.0
	defaultMelDB         = "amplitude"
	defaultImageFormat   = "jpeg"
	defaultImageWidth    = 640
	defaultImageHeight   = 480
	defaultJPEGQuality   = 90
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DatasetRoot: defaultDatasetRoot,
		},
		Split: Split{
			TestDir:       defaultTestDir,
			TrainDir:      defaultTrainDir,
			ValidationDir: defaultValidationDir,
		},
		Spectrogram: Spectrogram{
			NFFT:        defaultNFFT,
			HopLength:   defaultHopLength,
			WinLength:   defaultWinLength,
			Window:      defaultWindow,
			NumMels:     defaultNumMels,
			TopDB:       defaultTopDB,
			MelDB:       defaultMelDB,
			Format:      defaultImageFormat,
			Width:       defaultImageWidth,
			Height:      defaultImageHeight,
			JPEGQuality: defaultJPEGQuality,
		},
		Logging: Logging{
			Level: defaultLogLevel,
			Color: true,
		},
	}
}
