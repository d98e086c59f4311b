package bizcontext

import "fmt"

var errEmptyActorID = fmt.Errorf("bizcontext: actor id must not be empty")

func errInvalidActorKind(kind ActorKind) error {
	return fmt.Errorf("bizcontext: invalid actor kind %q", kind)
}
