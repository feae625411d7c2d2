package actions

import (
	"st.dev/st/internal/config"
	"st.dev/st/internal/output"
)

// ConfigShowAction prints the effective configuration.
func ConfigShowAction(splog *output.Splog, loaded *config.Loaded) error {
	out, err := loaded.Config.YAML()
	if err != nil {
		return err
	}
	if loaded.ConfigFileUsed != "" {
		splog.Info("# %s", loaded.ConfigFileUsed)
	} else {
		splog.Info("# no config file, showing defaults")
	}
	splog.Page(out)
	return nil
}

// ConfigSetAction writes key to the config file at path.
func ConfigSetAction(splog *output.Splog, path, key, value string) error {
	if err := config.Set(path, key, value); err != nil {
		return err
	}
	splog.Info("Set %s in %s.", key, path)
	return nil
}
