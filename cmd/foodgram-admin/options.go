package main

// Options is the root of the admin CLI. Struct tags are interpreted by github.com/jessevdk/go-flags.
type Options struct {
	Config string `short:"f" long:"config" description:"configuration YAML path"`

	Migrate         *MigrateCmd `command:"migrate"          description:"Create or update the database schema"`
	LoadIngredients *LoadCmd    `command:"load-ingredients" description:"Load ingredients from a JSON or YAML file"`
	LoadTags        *LoadCmd    `command:"load-tags"        description:"Load tags from a JSON or YAML file"`
}

// Init instantiates the sub-command named by the first positional argument
func (o *Options) Init(firstArg string) {
	switch firstArg {
	case "migrate":
		o.Migrate = &MigrateCmd{options: o}
	case "load-ingredients":
		o.LoadIngredients = &LoadCmd{options: o, kind: kindIngredients}
	case "load-tags":
		o.LoadTags = &LoadCmd{options: o, kind: kindTags}
	}
}
