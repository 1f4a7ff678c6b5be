package skeleton

import "github.com/spaghettifunk/anima-gallery/engine/scene"

// Walk visits every joint below armature in pre-order, starting with the
// armature's first child. The armature itself is never visited.
func Walk(armature *scene.Joint, fn func(j *scene.Joint)) {
	if armature == nil {
		return
	}
	for _, c := range armature.Children {
		walk(c, fn)
	}
}

func walk(j *scene.Joint, fn func(j *scene.Joint)) {
	fn(j)
	for _, c := range j.Children {
		walk(c, fn)
	}
}

// WalkIterative returns the same order as Walk using an explicit stack.
func WalkIterative(armature *scene.Joint) []*scene.Joint {
	if armature == nil {
		return nil
	}
	var out []*scene.Joint
	stack := make([]*scene.Joint, 0, len(armature.Children))
	for i := len(armature.Children) - 1; i >= 0; i-- {
		stack = append(stack, armature.Children[i])
	}
	for len(stack) > 0 {
		j := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, j)
		for i := len(j.Children) - 1; i >= 0; i-- {
			stack = append(stack, j.Children[i])
		}
	}
	return out
}
