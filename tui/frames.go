package tui

import "strings"

const planeArt = `
                    __
                 _.' /
             _.-'   /
         _.-'  _.  /
     _.-'  _.-'   /
  .-'  _.-'      /
   '-.'         /
      '-.  .-. /
         \/   V
`

var trails = [4]string{
	"  ~       ",
	"   ~ ~    ",
	"  ~ ~ ~   ",
	"   ~   ~ ~",
}

// planeFrames holds the splash animation: the same plane with a drifting
// trail underneath.
var planeFrames [4]string

func init() {
	art := strings.Trim(planeArt, "\n")
	for i, trail := range trails {
		planeFrames[i] = art + "\n" + trail
	}
}
