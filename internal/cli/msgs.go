package cli

// Message constants
const (
	MsgRootShort = "Install a font into the system or user font directory"
	MsgRootLong  = `fontdrop installs a font file into the correct font directory, sorted
by format (OTF or TTF). System installs go to the system font root and
retry once with elevated privileges when the directory is not writable;
user installs go to the XDG data home and never escalate.

After placing the file, fontdrop normalizes its permissions and asks
fontconfig to rebuild the font cache.`

	MsgRootExample = `  # Install system-wide (may prompt for your password)
  fontdrop Roboto.ttf

  # Install for the current user only
  fontdrop Roboto.ttf --user`

	MsgFlagUser    = "Install to the user font directory (XDG data home) instead of the system root"
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
)
