package graphics

const chunkVertexShader = `#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec4 aColor;
layout (location = 2) in vec3 aNormal;

uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;

out vec4 vColor;
out vec3 vNormal;

void main() {
	vColor = aColor;
	vNormal = aNormal;
	gl_Position = projection * view * model * vec4(aPos, 1.0);
}
`

const chunkFragmentShader = `#version 410 core
in vec4 vColor;
in vec3 vNormal;

uniform vec3 lightDir;
uniform float ambient;

out vec4 FragColor;

void main() {
	float diffuse = max(dot(normalize(vNormal), normalize(-lightDir)), 0.0);
	FragColor = vec4(vColor.rgb * (ambient + (1.0 - ambient) * diffuse), vColor.a);
}
`

const highlightVertexShader = `#version 410 core
layout (location = 0) in vec3 aPos;

uniform mat4 model;
uniform mat4 view;
uniform mat4 proj;

void main() {
	gl_Position = proj * view * model * vec4(aPos, 1.0);
}
`

const highlightFragmentShader = `#version 410 core
uniform vec3 color;

out vec4 FragColor;

void main() {
	FragColor = vec4(color, 1.0);
}
`
