package compare

// Config holds the defaults for comparison runs.
type Config struct {
	// Strategy is the lookup strategy used when a request names none.
	Strategy string `mapstructure:"strategy" default:"set-join"`
	// Workers bounds how many comparisons run at once.
	Workers int `mapstructure:"workers" default:"4"`
}
