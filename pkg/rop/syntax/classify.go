package syntax

import (
	"strings"

	"github.com/ib-77/ropipe/pkg/rop/step"
)

const keywordAwait = "await"

// Classify turns one raw step token into a descriptor.
func Classify(token string) (step.Descriptor, error) {
	p := &parser{s: scanner{src: token}, token: token, step: -1}
	return p.parse()
}

// ClassifyAll classifies tokens in order and stops at the first error, which
// carries the index of the offending step.
func ClassifyAll(tokens []string) ([]step.Descriptor, error) {
	descs := make([]step.Descriptor, 0, len(tokens))
	for i, tok := range tokens {
		p := &parser{s: scanner{src: tok}, token: tok, step: i}
		d, err := p.parse()
		if err != nil {
			return nil, err
		}
		descs = append(descs, d)
	}
	return descs, nil
}

type parser struct {
	s     scanner
	token string
	step  int
}

func (p *parser) errorf(pos int, format string, args ...any) error {
	return Errorf(p.step, p.token, pos, format, args...)
}

func (p *parser) parse() (step.Descriptor, error) {
	switch head := p.s.peek(); head.kind {
	case lexIdent:
		return p.parseCall()
	case lexPipe:
		return p.parseLambda()
	case lexEOF:
		return step.Descriptor{}, p.errorf(head.pos, "empty step")
	default:
		return step.Descriptor{}, p.errorf(head.pos, "expected identifier or '|', found %s", head.describe())
	}
}

func (p *parser) ident(after string) (lexeme, error) {
	l := p.s.next()
	if l.kind != lexIdent {
		return l, p.errorf(l.pos, "expected identifier after %s, found %s", after, l.describe())
	}
	if l.text == keywordAwait {
		return l, p.errorf(l.pos, "'await' is reserved")
	}
	return l, nil
}

func (p *parser) parseCall() (step.Descriptor, error) {
	head, err := p.ident("start of step")
	if err != nil {
		return step.Descriptor{}, err
	}

	var shape step.Shape = step.FreeCall{Callee: head.text}

	switch p.s.peek().kind {
	case lexDot:
		p.s.next()
		name := p.s.next()
		if name.kind != lexIdent {
			return step.Descriptor{}, p.errorf(name.pos, "expected identifier after '.', found %s", name.describe())
		}
		if name.text == keywordAwait {
			// f.await or f.await?
			fallible := p.s.accept(lexQuestion)
			return p.finish(shape, fallible, true)
		}
		shape = step.MethodCall{Receiver: head.text, Callee: name.text}
	case lexPath:
		p.s.next()
		name, err := p.ident("'::'")
		if err != nil {
			return step.Descriptor{}, err
		}
		shape = step.ScopedCall{Scope: head.text, Callee: name.text}
	}

	fallible, suspending, err := p.parseSuffix()
	if err != nil {
		return step.Descriptor{}, err
	}
	return p.finish(shape, fallible, suspending)
}

// parseSuffix reads '?', '.await' or '.await?'.
func (p *parser) parseSuffix() (fallible, suspending bool, err error) {
	switch l := p.s.peek(); l.kind {
	case lexEOF:
		return false, false, nil
	case lexQuestion:
		p.s.next()
		return true, false, nil
	case lexDot:
		p.s.next()
		name := p.s.next()
		if name.kind != lexIdent || name.text != keywordAwait {
			return false, false, p.errorf(name.pos, "expected 'await' after '.', found %s", name.describe())
		}
		return p.s.accept(lexQuestion), true, nil
	default:
		return false, false, p.errorf(l.pos, "unexpected %s", l.describe())
	}
}

func (p *parser) finish(shape step.Shape, fallible, suspending bool) (step.Descriptor, error) {
	if l := p.s.next(); l.kind != lexEOF {
		return step.Descriptor{}, p.errorf(l.pos, "unexpected %s after step", l.describe())
	}
	return step.New(shape, fallible, suspending).WithToken(p.token), nil
}

func (p *parser) typeName(after string) (string, error) {
	l := p.s.next()
	if l.kind != lexIdent {
		return "", p.errorf(l.pos, "expected type after %s, found %s", after, l.describe())
	}
	if _, ok := step.TypeOf(l.text); !ok {
		return "", p.errorf(l.pos, "unsupported type %q", l.text)
	}
	return l.text, nil
}

func (p *parser) parseLambda() (step.Descriptor, error) {
	p.s.next() // '|'

	param, err := p.ident("'|'")
	if err != nil {
		return step.Descriptor{}, err
	}

	lambda := step.InlineLambda{Param: param.text}
	if p.s.accept(lexColon) {
		if lambda.ParamType, err = p.typeName("':'"); err != nil {
			return step.Descriptor{}, err
		}
	}

	if l := p.s.next(); l.kind != lexPipe {
		return step.Descriptor{}, p.errorf(l.pos, "expected '|' after lambda parameter, found %s", l.describe())
	}

	if p.s.accept(lexArrow) {
		if lambda.ReturnType, err = p.typeName("'->'"); err != nil {
			return step.Descriptor{}, err
		}
	}

	body, pos := p.s.rest()
	if body == "" {
		return step.Descriptor{}, p.errorf(pos, "empty lambda body")
	}

	if body[0] == '{' {
		end, ok := matchClose(body, 0)
		if !ok {
			return step.Descriptor{}, p.errorf(pos, "unterminated lambda body")
		}
		if end != len(body)-1 {
			return step.Descriptor{}, p.errorf(pos+end+1, "unexpected input after lambda body")
		}
		body = strings.TrimSpace(body[1:end])
		if body == "" {
			return step.Descriptor{}, p.errorf(pos, "empty lambda body")
		}
	} else if lambda.ReturnType != "" {
		return step.Descriptor{}, p.errorf(pos, "lambda with a return type needs a { } body")
	}

	lambda.Body = body
	return step.New(lambda, false, false).WithToken(p.token), nil
}
