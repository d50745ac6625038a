package config

// defaultPlan provisions a Python runtime and Git for Windows.
const defaultPlan = `
tools:
  - name: python
    marker: python.exe
    candidates:
      - '%LOCALAPPDATA%\Programs\Python\Python312'
      - 'C:\Program Files\Python312'
      - 'C:\Python312'
    fallback:
      root: 'C:\'
      suffix: 'Python312'
    installer:
      url: https://www.python.org/ftp/python/3.12.7/python-3.12.7-amd64.exe
      args: ['/quiet', 'InstallAllUsers=0', 'PrependPath=0', 'Include_test=0']
  - name: git
    marker: git.exe
    candidates:
      - 'C:\Program Files\Git\cmd'
      - '%LOCALAPPDATA%\Programs\Git\cmd'
    fallback:
      root: 'C:\'
      suffix: 'Git\cmd'
    installer:
      url: https://github.com/git-for-windows/git/releases/download/v2.47.0.windows.1/Git-2.47.0-64-bit.exe
      args: ['/VERYSILENT', '/NORESTART', '/NOCANCEL', '/SP-']
`

// Default returns the built-in plan, expanded with lookup.
func Default(lookup func(string) (string, bool)) *Plan {
	p, err := Parse([]byte(defaultPlan), lookup)
	if err != nil {
		panic(err)
	}
	return p
}
